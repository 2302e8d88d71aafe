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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sitefixhq/sitefix"
	"github.com/sitefixhq/sitefix/config"
	"github.com/sitefixhq/sitefix/database"
	"github.com/sitefixhq/sitefix/internal/notification"
)

// Sitefix represents the CLI application, encapsulating the root Cobra command.
type Sitefix struct {
	cmd *cobra.Command
}

// sitefixInstance holds the runtime service instance and its configuration,
// shared across subcommands.
type sitefixInstance struct {
	sitefix *sitefix.Sitefix
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and connects the service before any
// subcommand executes.
func preRun(app *sitefixInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("sitefix.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newSitefix, err := setupSitefix(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.sitefix = newSitefix
		app.cnf = cnf

		return nil
	}
}

func setupSitefix(cfg *config.Configuration) (*sitefix.Sitefix, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newSitefix, err := sitefix.NewSitefix(db)
	if err != nil {
		return nil, fmt.Errorf("error creating sitefix: %v", err)
	}
	return newSitefix, nil
}

// NewCLI builds the command tree for the sitefix binary.
func NewCLI() *Sitefix {
	var configFile string
	s := &sitefixInstance{}

	var rootCmd = &cobra.Command{
		Use:   "sitefix",
		Short: "Facility maintenance work orders",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./sitefix.json", "Configuration file for sitefix")
	rootCmd.PersistentPreRunE = preRun(s)

	rootCmd.AddCommand(serverCommands(s))
	rootCmd.AddCommand(workerCommands(s))
	rootCmd.AddCommand(migrateCommands(s))
	rootCmd.AddCommand(configCommands())
	rootCmd.AddCommand(seedCommands(s))

	return &Sitefix{cmd: rootCmd}
}

func (s Sitefix) executeCLI() {
	if err := s.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
