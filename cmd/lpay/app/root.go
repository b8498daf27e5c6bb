// Copyright 2019 The go-lumenpay Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package app implements the lpay command line wallet.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lumenpay/go-lumenpay/log"
	"github.com/lumenpay/go-lumenpay/session"
)

var rootCmd = &cobra.Command{
	Use:   "lpay",
	Short: "Payment wallet for the Lumenpay network",
	Long: `lpay manages a wallet account on the Lumenpay network: it sends
payments, manages trustlines and exchange offers, and syncs the
incoming payment history into a local database.`,
}

var (
	cfgFile string
	debug   bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path of the config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// newSession loads the config file and wires a session. Commands
// that talk to the network or the database go through here.
func newSession() *session.Session {
	if debug {
		log.OpenDebug()
	}
	if cfgFile == "" {
		log.Fatalf("config file not provided")
	}
	v := viper.New()
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
	c, err := session.NewConfig(v)
	if err != nil {
		log.Fatal(err)
	}
	s, err := session.New(c)
	if err != nil {
		log.Fatal(err)
	}
	return s
}
