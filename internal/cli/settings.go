package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/aviu16/mercury-bot/pkg/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage notification settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current notification settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update notification settings",
	Long: `Update one or more notification settings. Only the flags provided are
changed; the rest keep their current values. The monitor picks up persisted
settings on its next start, or immediately via the status API.`,
	RunE: runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsSetCmd.Flags().Bool("enabled", true, "Enable or disable notifications")
	settingsSetCmd.Flags().Float64("min-amount", 0, "Minimum transaction amount in USD")
	settingsSetCmd.Flags().Bool("credits", true, "Notify on incoming transactions")
	settingsSetCmd.Flags().Bool("debits", true, "Notify on outgoing transactions")
	settingsSetCmd.Flags().Int64("cooldown", 300, "Per-vendor cooldown in seconds")
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	s, ok, err := store.LoadSettings(cmd.Context())
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		s = model.DefaultSettings()
		fmt.Println("No settings persisted yet, showing defaults.")
	}

	printSettings(s)
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	s, ok, err := store.LoadSettings(cmd.Context())
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		s = model.DefaultSettings()
	}

	if cmd.Flags().Changed("enabled") {
		s.Enabled, _ = cmd.Flags().GetBool("enabled")
	}
	if cmd.Flags().Changed("min-amount") {
		amount, _ := cmd.Flags().GetFloat64("min-amount")
		if amount < 0 {
			return fmt.Errorf("min-amount must not be negative")
		}
		s.MinAmountMinor = int64(math.Round(amount * 100))
	}
	if cmd.Flags().Changed("credits") {
		s.IncludeCredits, _ = cmd.Flags().GetBool("credits")
	}
	if cmd.Flags().Changed("debits") {
		s.IncludeDebits, _ = cmd.Flags().GetBool("debits")
	}
	if cmd.Flags().Changed("cooldown") {
		cooldown, _ := cmd.Flags().GetInt64("cooldown")
		if cooldown < 0 {
			return fmt.Errorf("cooldown must not be negative")
		}
		s.CooldownSeconds = cooldown
	}

	if err := store.SaveSettings(cmd.Context(), s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	fmt.Println("Settings updated:")
	printSettings(s)
	return nil
}

func printSettings(s model.NotificationSettings) {
	fmt.Printf("  Enabled:     %t\n", s.Enabled)
	fmt.Printf("  Min amount:  %s\n", model.FormatAmount(s.MinAmountMinor))
	fmt.Printf("  Credits:     %t\n", s.IncludeCredits)
	fmt.Printf("  Debits:      %t\n", s.IncludeDebits)
	fmt.Printf("  Cooldown:    %s\n", s.Cooldown())
}
