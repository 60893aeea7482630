/*
Copyright 2024

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
package cmd

import (
	"fmt"

	"github.com/penny-vault/stock-dashboard/stocks"
	"github.com/spf13/cobra"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the report views",
	Run: func(cmd *cobra.Command, args []string) {
		for _, v := range stocks.AllViews() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", v.String(), v.Title())
		}
	},
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}
