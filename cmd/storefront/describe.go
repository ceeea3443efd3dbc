package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arenashop/storefront/describe"
	"github.com/arenashop/storefront/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	describeLang string
	describeTone string
	describeSave bool
)

var describeCmd = &cobra.Command{
	Use:   "describe <product-code>",
	Short: "Generate a product description",
	Long: `Generates storefront copy for a stored product and prints the result as JSON.

Uses the configured AI provider when GEMINI_API_KEY is set and falls back to
the built-in templates otherwise.

Example:
  storefront describe ps5-slim --lang ar --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := describe.ParseLanguage(describeLang)
		if err != nil {
			return err
		}

		return withDB(cmd.Context(), func(db *gorm.DB) error {
			repo := models.NewProductsRepository(db)
			product, err := repo.GetByCode(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load product %s: %w", args[0], err)
			}

			generator, err := newGenerator(cmd.Context())
			if err != nil {
				return err
			}
			result, err := generator.Generate(cmd.Context(),
				describe.InputFromProduct(product, cfg.Store.BaseCurrency),
				describe.Options{Language: lang, Tone: describeTone})
			if err != nil {
				return err
			}

			if describeSave {
				if err := repo.UpdateDescription(cmd.Context(), product.Code, string(lang), result.Text); err != nil {
					return fmt.Errorf("save description: %w", err)
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		})
	},
}
