package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	profileFirst string
	profileLast  string
)

func init() {
	profileUpdateCmd.Flags().StringVar(&profileFirst, "first", "", "first name")
	profileUpdateCmd.Flags().StringVar(&profileLast, "last", "", "last name")

	profileCmd.AddCommand(profileUpdateCmd, profilePictureCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your own profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your name",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		user, err := a.Client.UpdateProfile(cmd.Context(), profileFirst, profileLast)
		if err != nil {
			return err
		}
		fmt.Printf("Profile updated: %s\n", user.FullName())
		return nil
	},
}

var profilePictureCmd = &cobra.Command{
	Use:   "picture <file>",
	Short: "Upload a profile picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading picture: %w", err)
		}
		contentType := mime.TypeByExtension(filepath.Ext(args[0]))
		if _, err := a.Client.UploadProfilePicture(cmd.Context(), filepath.Base(args[0]), contentType, data); err != nil {
			return err
		}
		fmt.Println("Profile picture updated.")
		return nil
	},
}
