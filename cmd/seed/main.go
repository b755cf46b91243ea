package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justsurfingit/korea-job-board/internal/config"
	"github.com/justsurfingit/korea-job-board/internal/database"
	"github.com/justsurfingit/korea-job-board/internal/models"
	"github.com/justsurfingit/korea-job-board/internal/seed"
	"github.com/justsurfingit/korea-job-board/internal/store"
)

func main() {
	location := flag.String("location", "", "Only list jobs in this location (e.g. Busan)")
	category := flag.String("category", "", "Only list jobs in this category (e.g. Manufacturing)")
	jobType := flag.String("type", "", "Only list jobs of this type (e.g. Full-time)")
	search := flag.String("search", "", "Case-insensitive text to look for in title, company or description")
	sortOrder := flag.String("sort", "", "Order: newest | deadline | salary-high | salary-low")
	visa := flag.Bool("visa", false, "Only list jobs that sponsor a visa")
	accommodation := flag.Bool("accommodation", false, "Only list jobs that provide accommodation")
	skipInsert := flag.Bool("skip-insert", false, "Do not insert the sample data, only list what is there")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nInserts the sample jobs and applications, then lists the board.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	criteria := store.Criteria{
		Search:                *search,
		Location:              models.Location(*location),
		Category:              models.Category(*category),
		Type:                  models.JobType(*jobType),
		VisaSponsorship:       *visa,
		AccommodationProvided: *accommodation,
		Sort:                  store.SortOrder(*sortOrder),
	}
	if err := validate(criteria); err != nil {
		pterm.Error.Println(err)
		flag.Usage()
		os.Exit(2)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	cfg := config.Load()

	ctx := context.Background()
	db, err := database.Connect(cfg.DatabaseURL, cfg.DatabaseDebug)
	if err != nil {
		pterm.Fatal.Printfln("Failed to connect to database: %v", err)
	}

	s := store.New(database.NewTables(db))
	if err := s.LoadAll(ctx); err != nil {
		pterm.Fatal.Printfln("Failed to load the board: %v", err)
	}

	if !*skipInsert {
		total, err := seed.Total()
		if err != nil {
			pterm.Fatal.Println(err)
		}
		bar := pb.StartNew(total)
		res, err := seed.Insert(ctx, s, func() { bar.Increment() })
		bar.Finish()
		if err != nil {
			pterm.Fatal.Printfln("Seeding stopped: %v", err)
		}
		pterm.Success.Printfln("Inserted %d jobs and %d applications", res.Jobs, res.Applications)
	}

	jobs := s.ApplyFilter(criteria)
	if len(jobs) == 0 {
		pterm.Warning.Println("No jobs match these filters")
		return
	}
	if err := render(jobs); err != nil {
		pterm.Fatal.Println(err)
	}

	stats := s.Stats()
	pterm.Info.Printfln("%d of %d jobs shown, %d applications on the board", len(jobs), len(s.Jobs()), stats.Total)
	for _, status := range models.Statuses {
		if n := stats.ByStatus[status]; n > 0 {
			pterm.Printfln("  %-14s %d", status, n)
		}
	}
}

func validate(c store.Criteria) error {
	switch {
	case c.Location != "" && !c.Location.Valid():
		return fmt.Errorf("unknown location %q", c.Location)
	case c.Category != "" && !c.Category.Valid():
		return fmt.Errorf("unknown category %q", c.Category)
	case c.Type != "" && !c.Type.Valid():
		return fmt.Errorf("unknown job type %q", c.Type)
	}
	switch c.Sort {
	case "", store.SortNewest, store.SortDeadline, store.SortSalaryHigh, store.SortSalaryLow:
		return nil
	}
	return fmt.Errorf("unknown sort order %q", c.Sort)
}

func render(jobs []models.Job) error {
	data := pterm.TableData{{"Title", "Company", "Location", "Type", "Salary", "Deadline", "Visa", "Posted"}}
	for _, j := range jobs {
		data = append(data, []string{
			j.Title,
			j.Company,
			string(j.Location),
			string(j.Type),
			colorSalary(j.Salary),
			j.ApplicationDeadline.Format("2006-01-02"),
			strconv.FormatBool(j.VisaSponsorship),
			humanize.Time(j.PostedDate),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// colorSalary shades monthly KRW pay: green from 3M, yellow from 2.5M, red below.
func colorSalary(s models.Salary) string {
	text := s.String()
	if s.Currency != models.DefaultCurrency || s.Max == 0 {
		return text
	}
	switch {
	case s.Max >= 3_000_000:
		return pterm.Green(text)
	case s.Max >= 2_500_000:
		return pterm.Yellow(text)
	default:
		return pterm.Red(text)
	}
}
