package cli

import (
	"github.com/pricofy/games-api/internal/app"
	"github.com/pricofy/games-api/internal/config"
	"github.com/pricofy/games-api/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd(loadConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample profiles and games into the configured tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			awsCfg, err := app.LoadAWS(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			st := app.NewDynamoStore(app.NewClients(awsCfg).DynamoDB, cfg)
			return seed.Load(cmd.Context(), st)
		},
	}
}
