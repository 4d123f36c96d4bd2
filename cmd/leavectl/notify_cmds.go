package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"leavectl/internal/push"
)

func init() {
	notificationsCmd.AddCommand(notificationsListCmd, notificationsWatchCmd, notificationsReadCmd, notificationsReadAllCmd)
}

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notify"},
	Short:   "View notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.Stores.Notifications.Fetch(cmd.Context()); err != nil {
			return err
		}
		for _, n := range a.Stores.Notifications.All() {
			marker := " "
			if !n.IsRead {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  %s\n", marker, n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Message)
		}
		fmt.Printf("\n%d unread\n", a.Stores.Notifications.UnreadCount())
		return nil
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live notifications until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		user, _ := a.Stores.Auth.User()

		endpoint, err := push.Endpoint(a.Cfg.APIBaseURL, a.Cfg.PushPath)
		if err != nil {
			return err
		}
		channel := push.New(endpoint, a.Client.Sessions(), a.Stores.Notifications, a.Log)

		a.Stores.Notifications.Subscribe(func() {
			fmt.Printf("\r%d unread\n", a.Stores.Notifications.UnreadCount())
		})

		if err := channel.Connect(cmd.Context(), user.ID); err != nil {
			return err
		}
		defer channel.Close()

		fmt.Println("Watching for notifications (Ctrl-C to stop)...")
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		return a.Stores.Notifications.MarkRead(cmd.Context(), args[0])
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		return a.Stores.Notifications.MarkAllRead(cmd.Context())
	},
}
