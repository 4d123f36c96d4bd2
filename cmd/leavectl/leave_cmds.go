package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"leavectl/internal/api"
	"leavectl/internal/model"
)

var (
	leaveTypeID   string
	leaveFrom     string
	leaveTo       string
	leaveHalfDay  bool
	leaveReason   string
	leaveDocs     []string
	leaveStatus   string
	leaveComment  string
	balancesYear  int
)

func init() {
	leaveApplyCmd.Flags().StringVar(&leaveTypeID, "type", "", "leave type id")
	leaveApplyCmd.Flags().StringVar(&leaveFrom, "from", "", "start date (YYYY-MM-DD)")
	leaveApplyCmd.Flags().StringVar(&leaveTo, "to", "", "end date (YYYY-MM-DD)")
	leaveApplyCmd.Flags().BoolVar(&leaveHalfDay, "half-day", false, "half-day leave")
	leaveApplyCmd.Flags().StringVar(&leaveReason, "reason", "", "reason for the request")
	leaveApplyCmd.Flags().StringSliceVar(&leaveDocs, "doc", nil, "supporting document file (repeatable)")
	_ = leaveApplyCmd.MarkFlagRequired("type")
	_ = leaveApplyCmd.MarkFlagRequired("from")
	_ = leaveApplyCmd.MarkFlagRequired("to")

	leaveListCmd.Flags().StringVar(&leaveStatus, "status", "", "filter by status (pending/approved/rejected)")

	leaveApproveCmd.Flags().StringVar(&leaveComment, "comment", "", "approval comment")
	leaveRejectCmd.Flags().StringVar(&leaveComment, "comment", "", "rejection comment")

	leaveBalanceCmd.Flags().IntVar(&balancesYear, "year", time.Now().Year(), "balance year")

	leaveCmd.AddCommand(leaveApplyCmd, leaveListCmd, leaveApproveCmd, leaveRejectCmd, leaveCancelCmd, leaveTypesCmd, leaveBalanceCmd)
}

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Apply for and manage leave",
}

func parseDay(value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return parsed, nil
}

var leaveApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Submit a leave request",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}

		from, err := parseDay(leaveFrom)
		if err != nil {
			return err
		}
		to, err := parseDay(leaveTo)
		if err != nil {
			return err
		}
		if to.Before(from) {
			return fmt.Errorf("end date is before start date")
		}

		var uploads []api.Upload
		for _, path := range leaveDocs {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading document %s: %w", path, err)
			}
			uploads = append(uploads, api.Upload{
				Field:    "documents",
				FileName: filepath.Base(path),
				Data:     data,
			})
		}

		input := api.LeaveRequestInput{
			LeaveTypeID: leaveTypeID,
			StartDate:   from,
			EndDate:     to,
			HalfDay:     leaveHalfDay,
			Reason:      leaveReason,
		}
		request, err := a.Stores.Leave.ApplyWithDocuments(cmd.Context(), input, uploads)
		if err != nil {
			return err
		}
		fmt.Printf("Leave request %s submitted (%s)\n", request.ID, request.Status)
		return nil
	},
}

var leaveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leave requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.Stores.Leave.FetchRequests(cmd.Context(), leaveStatus); err != nil {
			return err
		}
		for _, r := range a.Stores.Leave.Requests() {
			fmt.Printf("%s  %s  %s → %s  %s\n",
				r.ID, r.Status,
				r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"),
				r.Reason)
		}
		return nil
	},
}

func setStatus(cmd *cobra.Command, id, status string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}
	if err := a.requireRole(model.RoleManager, model.RoleAdmin); err != nil {
		return err
	}
	request, err := a.Stores.Leave.SetStatus(cmd.Context(), id, status, leaveComment)
	if err != nil {
		return err
	}
	fmt.Printf("Request %s is now %s\n", request.ID, request.Status)
	return nil
}

var leaveApproveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Approve a pending leave request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], model.LeaveStatusApproved)
	},
}

var leaveRejectCmd = &cobra.Command{
	Use:   "reject <request-id>",
	Short: "Reject a pending leave request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], model.LeaveStatusRejected)
	},
}

var leaveCancelCmd = &cobra.Command{
	Use:   "cancel <request-id>",
	Short: "Cancel your own pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.Stores.Leave.Cancel(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Request canceled.")
		return nil
	},
}

var leaveTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List leave types",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.Stores.Leave.FetchTypes(cmd.Context()); err != nil {
			return err
		}
		for _, t := range a.Stores.Leave.Types() {
			docs := ""
			if t.RequiresDoc {
				docs = " (documentation required)"
			}
			fmt.Printf("%s  %s  max %.1f days%s\n", t.ID, t.Name, t.MaxDays, docs)
		}
		return nil
	},
}

var leaveBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show leave balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		user, _ := a.Stores.Auth.User()
		if err := a.Stores.Leave.FetchBalances(cmd.Context(), user.ID, balancesYear); err != nil {
			return err
		}
		for _, b := range a.Stores.Leave.Balances() {
			// AvailableDays comes from the server as-is.
			fmt.Printf("%s  total %.1f  used %.1f  pending %.1f  available %.1f\n",
				b.LeaveTypeID, b.TotalDays, b.UsedDays, b.PendingDays, b.AvailableDays)
		}
		return nil
	},
}
