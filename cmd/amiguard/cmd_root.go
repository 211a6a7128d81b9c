package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/yairfalse/amiguard/config"
	"github.com/yairfalse/amiguard/handler"
	"github.com/yairfalse/amiguard/policy"
	awsprovider "github.com/yairfalse/amiguard/providers/aws"
	"github.com/yairfalse/amiguard/telemetry"
	"github.com/yairfalse/amiguard/types"
)

var (
	configPath string
	regionFlag string
	dryRunFlag bool
)

// rootCmd starts the Lambda runtime. This is what runs when the
// deployment package invokes the binary with no arguments.
var rootCmd = &cobra.Command{
	Use:   "amiguard",
	Short: "Terminate ASG instances launched from public AMIs",
	Long: `amiguard reacts to EC2 RunInstances events: when an instance was
launched from a public AMI, it suspends the owning Auto Scaling Group,
terminates the instance, and files a HIGH severity Security Hub finding.

Run without arguments it registers with the Lambda runtime. Use the
replay command to push a captured event through the handler locally.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: environment)")
	rootCmd.PersistentFlags().StringVarP(&regionFlag, "region", "r", "", "AWS region override")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Evaluate without suspending, terminating or reporting")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	h, shutdown, err := buildHandler(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	lambda.StartWithOptions(func(ctx context.Context, raw json.RawMessage) (handler.Response, error) {
		event, err := types.ParseLaunchEvent(raw)
		if err != nil {
			return handler.Response{}, err
		}
		return h.Handle(ctx, event)
	}, lambda.WithContext(ctx))

	return nil
}

// buildHandler wires config, telemetry, clients and policy into a
// ready handler. The returned shutdown flushes telemetry.
func buildHandler(ctx context.Context) (*handler.Handler, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	otelShutdown := initTelemetry(ctx)

	clients, err := awsprovider.NewClients(ctx, cfg.Region)
	if err != nil {
		otelShutdown()
		return nil, nil, err
	}

	engine, err := policy.NewEngine(ctx, policy.Options{
		TrustedImages: cfg.Policy.TrustedImages,
		ExemptTag:     cfg.Policy.ExemptTag,
	})
	if err != nil {
		otelShutdown()
		return nil, nil, err
	}

	metrics, err := telemetry.NewHandlerMetrics()
	if err != nil {
		otelShutdown()
		return nil, nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	h := handler.New(clients, engine, metrics, handler.Options{DryRun: cfg.DryRun})
	return h, otelShutdown, nil
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, err
	}

	// Flags win over file and environment
	if regionFlag != "" {
		cfg.Region = regionFlag
	}
	if dryRunFlag {
		cfg.DryRun = true
	}

	return cfg, nil
}
