package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"calendar/src-client/api"
	"calendar/src-client/input"
	"calendar/src-client/view"
	"calendar/src-shared/calendar"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	loadDotEnv()

	app := &cli.App{
		Name:  "calendarctl",
		Usage: "Browse and edit the calendar from a terminal.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: "http://localhost:5000/api", EnvVars: []string{"CALENDAR_API_URL"}, Usage: "API root of the calendar service."},
			&cli.StringFlag{Name: "timezone", EnvVars: []string{"TIMEZONE"}, Usage: "IANA zone used for display and input. Defaults to the local zone."},
			&cli.StringFlag{Name: "week-start", Value: "sunday", EnvVars: []string{"WEEK_START"}, Usage: "First day of the week, sunday or monday."},
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			})))
			return nil
		},
		Commands: []*cli.Command{
			listCommand(),
			getCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
			viewCommand(),
			interactiveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("calendarctl failed", "error", err)
		os.Exit(1)
	}
}

func loadDotEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		slog.Info(err.Error())
	}
}

// env holds what every command derives from the global flags.
type env struct {
	client    *api.Client
	parser    *input.Parser
	location  *time.Location
	weekStart time.Weekday
	out       io.Writer
}

func newEnv(c *cli.Context) (*env, error) {
	loc := time.Local
	if tz := c.String("timezone"); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("invalid timezone '%s': %w", tz, err)
		}
	}
	weekStart, err := calendar.ParseWeekStart(c.String("week-start"))
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(c.String("api-url"), api.WithLocation(loc))
	if err != nil {
		return nil, err
	}
	return &env{
		client:    client,
		parser:    input.NewParser(loc),
		location:  loc,
		weekStart: weekStart,
		out:       c.App.Writer,
	}, nil
}

func (e *env) now() time.Time {
	return time.Now().In(e.location)
}

var outputFlag = &cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "table", Usage: "table, json or yaml"}

func eventFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title"},
		&cli.StringFlag{Name: "start", Usage: `e.g. "2024-03-11 09:00" or "tomorrow at 9am"`},
		&cli.StringFlag{Name: "end"},
		&cli.StringFlag{Name: "category", Usage: "fit, academics, ai-agent, mle, related, basics or other"},
		&cli.StringFlag{Name: "description"},
	}
}

func fieldsFrom(c *cli.Context) input.Fields {
	return input.Fields{
		Title:       c.String("title"),
		Start:       c.String("start"),
		End:         c.String("end"),
		Category:    c.String("category"),
		Description: c.String("description"),
	}
}

func printEvents(e *env, format string, events []api.Event) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	case "yaml":
		enc := yaml.NewEncoder(e.out)
		defer enc.Close()
		return enc.Encode(events)
	case "table", "":
		view.NewWriter(e.out).Table(events)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func idArg(c *cli.Context) (string, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return "", fmt.Errorf("%s needs an event id", c.Command.Name)
	}
	return id, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all events sorted by start.",
		Flags: []cli.Flag{
			outputFlag,
			&cli.StringFlag{Name: "category", Usage: "Only list events of this category."},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			events, err := e.client.List(c.Context)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}
			if events, err = filterByCategory(events, c.String("category")); err != nil {
				return err
			}
			return printEvents(e, c.String("output"), events)
		},
	}
}

// filterByCategory keeps the events of the named category. A blank name
// keeps everything.
func filterByCategory(events []api.Event, raw string) ([]api.Event, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return events, nil
	}
	category := calendar.Category(raw)
	if !category.Valid() {
		ids := make([]string, 0, len(calendar.Categories()))
		for _, known := range calendar.Categories() {
			ids = append(ids, string(known.ID))
		}
		return nil, fmt.Errorf("unknown category %q, expected one of %s", raw, strings.Join(ids, ", "))
	}
	filtered := make([]api.Event, 0, len(events))
	for _, ev := range events {
		if calendar.Category(ev.Category) == category {
			filtered = append(filtered, ev)
		}
	}
	return filtered, nil
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one event.",
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{outputFlag},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			id, err := idArg(c)
			if err != nil {
				return err
			}
			event, err := e.client.Get(c.Context, id)
			if err != nil {
				return fmt.Errorf("failed to get event: %w", err)
			}
			if format := c.String("output"); format != "table" {
				return printEvents(e, format, []api.Event{event})
			}
			view.NewWriter(e.out).Details(event)
			return nil
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create an event.",
		Flags: eventFlags(),
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			in, err := e.parser.Build(fieldsFrom(c), e.now())
			if err != nil {
				return err
			}
			if err := input.RequireCreate(in); err != nil {
				return err
			}
			event, err := e.client.Create(c.Context, in)
			if err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}
			slog.Info("event created", "id", event.ID)
			view.NewWriter(e.out).Details(event)
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change the given fields of an event.",
		ArgsUsage: "<id>",
		Flags:     eventFlags(),
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			id, err := idArg(c)
			if err != nil {
				return err
			}
			in, err := e.parser.Build(fieldsFrom(c), e.now())
			if err != nil {
				return err
			}
			event, err := e.client.Update(c.Context, id, in)
			if err != nil {
				return fmt.Errorf("failed to update event: %w", err)
			}
			slog.Info("event updated", "id", event.ID)
			view.NewWriter(e.out).Details(event)
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an event.",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			id, err := idArg(c)
			if err != nil {
				return err
			}
			msg, err := e.client.Delete(c.Context, id)
			if err != nil {
				return fmt.Errorf("failed to delete event: %w", err)
			}
			fmt.Fprintln(e.out, msg)
			return nil
		},
	}
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "Print the day, week or month grid.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "view", Value: "week", Usage: "day, week or month"},
			&cli.StringFlag{Name: "date", Usage: "Any date inside the period. Defaults to today."},
			&cli.StringFlag{Name: "category", Usage: "Only show events of this category."},
			&cli.BoolFlag{Name: "sidebar", Usage: "Also print categories and recent events."},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			s, err := newSession(c.Context, e)
			if err != nil {
				return err
			}
			v, err := calendar.ParseView(c.String("view"))
			if err != nil {
				return err
			}
			s.setView(v)
			if raw := c.String("date"); raw != "" {
				if err := s.goTo(raw); err != nil {
					return err
				}
			}
			if raw := c.String("category"); raw != "" {
				if err := s.filter(raw); err != nil {
					return err
				}
			}
			if c.Bool("sidebar") {
				s.sidebar()
			}
			s.render()
			return nil
		},
	}
}

func interactiveCommand() *cli.Command {
	return &cli.Command{
		Name:    "interactive",
		Aliases: []string{"i"},
		Usage:   "Start a prompt that keeps the calendar on screen.",
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			s, err := newSession(c.Context, e)
			if err != nil {
				return err
			}
			return s.loop(os.Stdin)
		},
	}
}
