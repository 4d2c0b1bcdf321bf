// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/glport/cmd/glport/opts"
	"github.com/walteh/glport/pkg/log"
	"github.com/walteh/glport/pkg/rewrite"
)

// NewRulesCmd creates the rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	var (
		category string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the effective rules",
		Long: `Rules prints the registry built from the enabled tables, the user rules
and the disable list, in the order lines are matched: bucket by bucket,
and within a bucket in registration order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, err := o.Registry(ctx)
			if err != nil {
				return err
			}

			log.FromContext(ctx).Header("effective rules, in match order")

			data := pterm.TableData{{"bucket", "name", "kind", "category", "to"}}
			count := 0
			for i := range rewrite.MaxBuckets {
				for _, r := range reg.Bucket(i) {
					if category != "" && r.Category != category {
						continue
					}
					if name != "" && r.Name != name {
						continue
					}
					data = append(data, []string{strconv.Itoa(i), r.Name, r.Kind.String(), r.Category, r.Template})
					count++
				}
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering rules table: %w", err)
			}

			if _, err := fmt.Fprintf(o.Stdout, "%s\n%d rules\n", table, count); err != nil {
				return errors.Errorf("writing rules: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list rules of this category")
	cmd.Flags().StringVar(&name, "name", "", "only list rules with this name")

	return cmd
}
