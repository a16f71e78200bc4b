package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/unitflow/unitflow/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and trigger background jobs",
}

var jobsTriggerCmd = &cobra.Command{
	Use:       "trigger <task>",
	Short:     "Enqueue a background task with its default payload",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{jobs.TaskDashboardWarmup, jobs.TaskInventoryStaleScan},
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := jobs.NewTaskByType(args[0])
		if err != nil {
			return err
		}
		client := jobs.NewClient(redisOpts())
		defer func() { _ = client.Close() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		info, err := client.Enqueue(ctx, task)
		if err != nil {
			return err
		}
		cmd.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
		return nil
	},
}

var jobsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print queue depth for the default queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		inspector := asynq.NewInspector(redisOpts())
		defer func() { _ = inspector.Close() }()

		info, err := inspector.GetQueueInfo(jobs.QueueDefault)
		if err != nil {
			return err
		}
		cmd.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d failed_today=%d\n",
			info.Queue, info.Pending, info.Active, info.Scheduled, info.Retry, info.Failed)
		return nil
	},
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}

func init() {
	jobsCmd.AddCommand(jobsTriggerCmd, jobsStatsCmd)
	rootCmd.AddCommand(jobsCmd)
}
