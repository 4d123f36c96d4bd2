package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"leavectl/internal/api"
	"leavectl/internal/model"
)

var (
	userEmail      string
	userFirst      string
	userLast       string
	userRole       string
	userDepartment string
	deptName       string
	deptDesc       string
)

func init() {
	for _, c := range []*cobra.Command{usersCreateCmd, usersUpdateCmd} {
		c.Flags().StringVar(&userEmail, "email", "", "email address")
		c.Flags().StringVar(&userFirst, "first", "", "first name")
		c.Flags().StringVar(&userLast, "last", "", "last name")
		c.Flags().StringVar(&userRole, "role", model.RoleStaff, "role (admin/manager/staff)")
		c.Flags().StringVar(&userDepartment, "department", "", "department id")
	}
	_ = usersCreateCmd.MarkFlagRequired("email")

	departmentsCreateCmd.Flags().StringVar(&deptName, "name", "", "department name")
	departmentsCreateCmd.Flags().StringVar(&deptDesc, "description", "", "description")
	_ = departmentsCreateCmd.MarkFlagRequired("name")

	usersCmd.AddCommand(usersListCmd, usersCreateCmd, usersUpdateCmd, usersDeleteCmd)
	departmentsCmd.AddCommand(departmentsListCmd, departmentsCreateCmd, departmentsHeadCmd)
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users (admin)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.requireRole(model.RoleAdmin, model.RoleManager); err != nil {
			return err
		}
		if err := a.Stores.Users.Fetch(cmd.Context()); err != nil {
			return err
		}
		for _, u := range a.Stores.Users.All() {
			fmt.Printf("%s  %-30s %-10s %s\n", u.ID, u.Email, u.Role, u.FullName())
		}
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
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
		user, err := a.Stores.Users.Create(cmd.Context(), api.UserInput{
			Email:        userEmail,
			FirstName:    userFirst,
			LastName:     userLast,
			Role:         userRole,
			DepartmentID: userDepartment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s)\n", user.ID, user.Email)
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
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
		user, err := a.Stores.Users.Update(cmd.Context(), args[0], api.UserInput{
			Email:        userEmail,
			FirstName:    userFirst,
			LastName:     userLast,
			Role:         userRole,
			DepartmentID: userDepartment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Updated user %s (%s)\n", user.ID, user.Email)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
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
		if err := a.Stores.Users.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("User deleted.")
		return nil
	},
}

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "Manage departments (admin)",
}

var departmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List departments",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.Stores.Departments.Fetch(cmd.Context()); err != nil {
			return err
		}
		for _, d := range a.Stores.Departments.All() {
			head := d.HeadID
			if head == "" {
				head = "-"
			}
			fmt.Printf("%s  %-25s head=%s\n", d.ID, d.Name, head)
		}
		return nil
	},
}

var departmentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a department",
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
		department, err := a.Stores.Departments.Create(cmd.Context(), api.DepartmentInput{
			Name:        deptName,
			Description: deptDesc,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created department %s\n", department.ID)
		return nil
	},
}

var departmentsHeadCmd = &cobra.Command{
	Use:   "head <department-id> [user-id]",
	Short: "Assign or remove the department head",
	Long:  "With a user id, assigns that user as head; without one, removes the current head.",
	Args:  cobra.RangeArgs(1, 2),
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
		if len(args) == 2 {
			if err := a.Stores.Departments.AssignHead(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Department head assigned.")
			return nil
		}
		if err := a.Stores.Departments.RemoveHead(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Department head removed.")
		return nil
	},
}
