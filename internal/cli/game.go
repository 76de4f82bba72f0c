package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load and reconcile the game",
		RunE: func(cmd *cobra.Command, args []string) error {
			save, err := device.Reconciler.LoadGame(cmd.Context())
			if err != nil {
				return err
			}
			out.Print(gameResult(save))
			return nil
		},
	}
}

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Reconcile the game and save it",
		Long: `Reconcile the game and save it.

Signed in, the save goes to the server and falls back to this device if the
server cannot be reached. As a guest it is saved on this device.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := device.Reconciler.LoadGame(cmd.Context()); err != nil {
				return err
			}
			if err := device.Reconciler.SaveGame(cmd.Context()); err != nil {
				return err
			}
			out.PrintMessage("Game saved")
			return nil
		},
	}
}

func newHarvestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "harvest <amount>",
		Short: "Harvest potatoes and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive number, got %q", args[0])
			}

			if _, err := device.Reconciler.LoadGame(cmd.Context()); err != nil {
				return err
			}
			device.State.Harvest(amount)
			if err := device.Reconciler.SaveGame(cmd.Context()); err != nil {
				return err
			}

			out.Print(gameResult(device.State.Snapshot()))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show identity and game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := device.Accounts.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			out.Print(FarmResult{
				Profile: profileResult(profile),
				Game:    gameResult(device.State.Snapshot()),
			})
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top players",
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(device.Client.FetchLeaderboard(cmd.Context()))
			return nil
		},
	}
}
