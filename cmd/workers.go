/*
Copyright 2025 Sitefix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitefixhq/sitefix"
	"github.com/sitefixhq/sitefix/database"
	"github.com/sitefixhq/sitefix/internal/lock"
	redis_db "github.com/sitefixhq/sitefix/internal/redis-db"
	"github.com/sitefixhq/sitefix/internal/sms"
)

const notificationWorkerLockKey = "sitefix:notification-worker"

// workerCommands returns the command that runs the outbox delivery loop.
// The worker claims due pending notifications and hands them to Twilio; a
// Redis tick lock keeps replicas from double-claiming when enabled.
func workerCommands(s *sitefixInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start sitefix notification workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := database.GetDBConnection(s.cnf)
			if err != nil {
				log.Fatalf("Error connecting to database: %v", err)
			}

			sender, err := sms.NewTwilioSender()
			if err != nil {
				log.Fatalf("Error creating Twilio sender: %v", err)
			}

			var tickLock *lock.TickLock
			if s.cnf.Worker.TickLock {
				redisClient, err := redis_db.NewRedisClient(s.cnf.Redis.Dns)
				if err != nil {
					log.Fatalf("Error connecting to Redis: %v", err)
				}
				tickLock = lock.NewTickLock(redisClient.Client(), notificationWorkerLockKey)
			}

			worker := sitefix.NewNotificationWorker(
				store,
				sender,
				time.Duration(s.cnf.Worker.PollIntervalSec)*time.Second,
				s.cnf.Worker.ClaimBatchSize,
				tickLock,
			)
			worker.Start(ctx)
		},
	}

	return cmd
}
