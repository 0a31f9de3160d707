package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"ytdub/internal/config"
	"ytdub/internal/httpapi"
	"ytdub/internal/jobs"
	"ytdub/internal/persistence"
	"ytdub/internal/pipeline"
	"ytdub/internal/service"
	"ytdub/internal/transcript"
	"ytdub/internal/tts"
	"ytdub/pkg/log"
)

func main() {
	// Missing .env is fine, environment variables still apply.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "ytdub",
		Short:         "Dub YouTube videos into Korean speech",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newVoicesCommand())

	if err := root.Execute(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	var engine string
	var voice string

	cmd := &cobra.Command{
		Use:   "run <url>",
		Short: "Dub a single video and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := make([]config.Option, 0, 2)
			if engine != "" {
				opts = append(opts, config.WithEngine(config.Engine(engine)))
			}
			if voice != "" {
				opts = append(opts, config.WithVoice(voice))
			}
			cfg, err := config.NewFromEnv(opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := pipeline.New(*cfg, transcript.NewSource(), tts.NewSynthesizer(), func(completed, total int, message string) {
				log.Info("[%d/%d] %s", completed, total, message)
			})
			result, err := p.Run(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Done: %s\n", result.Title)
			fmt.Printf("  folder: %s\n", result.Folder)
			fmt.Printf("  audio:  %s\n", result.AudioPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "", "translation engine (local or remote)")
	cmd.Flags().StringVar(&voice, "voice", "", "TTS voice id")
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the job queue with an HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewFromEnv()
			if err != nil {
				return err
			}

			store, err := persistence.NewSQLiteStore(cfg.Serve.DBPath)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}
			defer store.Close()

			queue := jobs.NewQueue(cfg.Serve.WorkerCount, store)
			queue.Start(newJobExecutor(*cfg, queue, store))
			defer queue.Stop()

			c := cron.New(cron.WithSeconds())
			sweep := service.NewSweepService(*cfg, queue, c)
			if err := sweep.Schedule(cmd.Context()); err != nil {
				return fmt.Errorf("schedule sweep: %w", err)
			}
			c.Start()
			defer c.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := httpapi.NewServer(queue, httpapi.WithEventStore(store))
			errCh := make(chan error, 1)
			go func() {
				log.Info("HTTP API listening on %s", cfg.Serve.Addr)
				errCh <- server.ListenAndServe(cfg.Serve.Addr)
			}()

			select {
			case <-ctx.Done():
				log.Info("Shutting down")
				return server.Shutdown(context.Background())
			case err := <-errCh:
				return err
			}
		},
	}
}

func newJobExecutor(cfg config.Config, queue *jobs.Queue, store *persistence.SQLiteStore) jobs.Executor {
	return func(ctx context.Context, job *jobs.DubbingJob) error {
		observer := func(completed, total int, message string) {
			progress := 0
			if total > 0 {
				progress = completed * 100 / total
			}
			queue.UpdateProgress(job.ID, progress, message)
			_ = store.AppendJobEvent(ctx, persistence.JobEvent{
				JobID:    job.ID,
				Progress: progress,
				Step:     message,
				Message:  message,
			})
		}

		p := pipeline.New(cfg, transcript.NewSource(), tts.NewSynthesizer(), observer)
		result, err := p.Run(ctx, job.Payload.URL)
		if err != nil {
			return err
		}
		log.Info("Job %s finished: %s", job.ID, result.AudioPath)
		return nil
	}
}

func newVoicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the known Korean voices",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, v := range tts.KoreanVoices {
				marker := " "
				if v.ID == tts.DefaultVoice {
					marker = "*"
				}
				fmt.Printf("%s %-22s %s (%s)\n", marker, v.ID, v.Desc, v.Gender)
			}
			return nil
		},
	}
}
