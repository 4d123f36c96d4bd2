package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"leavectl/internal/api"
	"leavectl/internal/model"
)

var (
	calFrom      string
	calTo        string
	eventTitle   string
	eventDesc    string
	eventStart   string
	eventEnd     string
	eventType    string
	holidayName  string
	holidayDate  string
	holidayYear  int
	holidayRecur bool
)

func init() {
	calendarListCmd.Flags().StringVar(&calFrom, "from", "", "range start (YYYY-MM-DD, default: start of month)")
	calendarListCmd.Flags().StringVar(&calTo, "to", "", "range end (YYYY-MM-DD, default: end of month)")

	calendarAddCmd.Flags().StringVar(&eventTitle, "title", "", "event title")
	calendarAddCmd.Flags().StringVar(&eventDesc, "description", "", "event description")
	calendarAddCmd.Flags().StringVar(&eventStart, "start", "", "start (RFC3339)")
	calendarAddCmd.Flags().StringVar(&eventEnd, "end", "", "end (RFC3339)")
	calendarAddCmd.Flags().StringVar(&eventType, "type", model.EventPersonal, "event type (personal/meeting/task)")
	_ = calendarAddCmd.MarkFlagRequired("title")
	_ = calendarAddCmd.MarkFlagRequired("start")
	_ = calendarAddCmd.MarkFlagRequired("end")

	holidaysListCmd.Flags().IntVar(&holidayYear, "year", time.Now().Year(), "holiday year")
	holidaysAddCmd.Flags().StringVar(&holidayName, "name", "", "holiday name")
	holidaysAddCmd.Flags().StringVar(&holidayDate, "date", "", "holiday date (YYYY-MM-DD)")
	holidaysAddCmd.Flags().BoolVar(&holidayRecur, "recurring", false, "repeats every year")
	_ = holidaysAddCmd.MarkFlagRequired("name")
	_ = holidaysAddCmd.MarkFlagRequired("date")

	calendarCmd.AddCommand(calendarListCmd, calendarAddCmd, calendarRemoveCmd)
	holidaysCmd.AddCommand(holidaysListCmd, holidaysAddCmd)
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "View and manage calendar events",
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events in a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}

		now := time.Now()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0).Add(-time.Second)
		if calFrom != "" {
			if from, err = parseDay(calFrom); err != nil {
				return err
			}
		}
		if calTo != "" {
			if to, err = parseDay(calTo); err != nil {
				return err
			}
		}

		if err := a.Stores.Calendar.FetchEvents(cmd.Context(), from, to); err != nil {
			return err
		}
		for _, e := range a.Stores.Calendar.Events() {
			fmt.Printf("%s  %-8s %s  %s\n", e.ID, e.Type, e.Start.Format("2006-01-02 15:04"), e.Title)
		}
		return nil
	},
}

var calendarAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an event",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}

		start, err := time.Parse(time.RFC3339, eventStart)
		if err != nil {
			return fmt.Errorf("invalid start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, eventEnd)
		if err != nil {
			return fmt.Errorf("invalid end: %w", err)
		}
		if end.Before(start) {
			return fmt.Errorf("event ends before it starts")
		}

		event, err := a.Stores.Calendar.CreateEvent(cmd.Context(), api.CalendarEventInput{
			Title:       eventTitle,
			Description: eventDesc,
			Start:       start,
			End:         end,
			Type:        eventType,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created event %s\n", event.ID)
		return nil
	},
}

var calendarRemoveCmd = &cobra.Command{
	Use:   "rm <event-id>",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.Stores.Calendar.DeleteEvent(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Event deleted.")
		return nil
	},
}

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "View and manage company holidays",
}

var holidaysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List holidays",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.Stores.Calendar.FetchHolidays(cmd.Context(), holidayYear); err != nil {
			return err
		}
		for _, h := range a.Stores.Calendar.Holidays() {
			recur := ""
			if h.Recurring {
				recur = " (recurring)"
			}
			fmt.Printf("%s  %s  %s%s\n", h.ID, h.Date.Format("2006-01-02"), h.Name, recur)
		}
		return nil
	},
}

var holidaysAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a holiday",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.requireRole(model.RoleAdmin); err != nil {
			return err
		}
		date, err := parseDay(holidayDate)
		if err != nil {
			return err
		}
		holiday, err := a.Stores.Calendar.CreateHoliday(cmd.Context(), api.HolidayInput{
			Name:      holidayName,
			Date:      date,
			Recurring: holidayRecur,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created holiday %s\n", holiday.ID)
		return nil
	},
}
