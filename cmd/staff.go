package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facekiosk/facekiosk/internal/store"
)

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Manage the registered roster",
}

var staffListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered staff",
	RunE:  runStaffList,
}

var staffAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new staff member",
	RunE:  runStaffAdd,
}

var staffRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a staff member",
	Args:  cobra.ExactArgs(1),
	RunE:  runStaffRemove,
}

func init() {
	rootCmd.AddCommand(staffCmd)
	staffCmd.AddCommand(staffListCmd)
	staffCmd.AddCommand(staffAddCmd)
	staffCmd.AddCommand(staffRemoveCmd)

	staffAddCmd.Flags().String("id", "", "Staff identifier (required)")
	staffAddCmd.Flags().String("name", "", "Display name (required)")
	staffAddCmd.Flags().String("role", "", "Role or position (required)")
	staffAddCmd.Flags().String("description", "", "Free-form note")
	staffAddCmd.Flags().String("photo", "", "Path to a reference photo (JPEG)")
}

func runStaffList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	comps, err := buildComponents(ctx)
	if err != nil {
		return err
	}
	defer comps.close()

	staff, err := comps.kiosk.Staff(ctx)
	if err != nil {
		return err
	}
	if len(staff) == 0 {
		fmt.Println("No staff registered")
		return nil
	}
	for _, st := range staff {
		photo := "no photo"
		if st.HasPhoto() {
			photo = "photo"
		}
		flag := ""
		if st.Preloaded {
			flag = " [preloaded]"
		}
		fmt.Printf("%-12s %-24s %-16s %s%s\n", st.ID, st.Name, st.Role, photo, flag)
	}
	return nil
}

func runStaffAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	comps, err := buildComponents(ctx)
	if err != nil {
		return err
	}
	defer comps.close()

	entry := store.Staff{
		ID:          mustGetString(cmd, "id"),
		Name:        mustGetString(cmd, "name"),
		Role:        mustGetString(cmd, "role"),
		Description: mustGetString(cmd, "description"),
	}
	if photoPath := mustGetString(cmd, "photo"); photoPath != "" {
		data, err := os.ReadFile(photoPath)
		if err != nil {
			return fmt.Errorf("reading photo: %w", err)
		}
		entry.PhotoBase64 = base64.StdEncoding.EncodeToString(data)
	}

	created, err := comps.kiosk.Register(ctx, entry)
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s (%s)\n", created.Name, created.ID)
	return nil
}

func runStaffRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	comps, err := buildComponents(ctx)
	if err != nil {
		return err
	}
	defer comps.close()

	if err := comps.kiosk.DeleteStaff(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}
