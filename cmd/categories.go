package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leanlens/leanlens/schema"
)

// categoryBlurbs is keyed by category for the reference listing.
var categoryBlurbs = map[schema.WasteCategory]string{
	schema.Transport:      "Unnecessary movement of materials or products between process steps",
	schema.Inventory:      "Excess raw material, work in progress or finished goods beyond demand",
	schema.Motion:         "Unnecessary movement of people within a workstation",
	schema.Waiting:        "Idle time where machines or operators wait on upstream work",
	schema.OverProcessing: "Doing more work or inspection than the customer requires",
	schema.OverProduction: "Producing more, earlier or faster than the next process needs",
	schema.Defects:        "Scrap, rework and the effort spent containing bad parts",
	schema.Skills:         "Underused people: talent, ideas and knowledge left on the table",
}

// categoriesCmd lists the waste categories the classifier assigns.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the eight TIMWOODS waste categories.",
	Long: `Print the TIMWOODS waste taxonomy used to classify detected losses.

TIMWOODS extends the classic seven Lean wastes with an eighth,
non-utilized Skills.`,
	Run: func(_ *cobra.Command, _ []string) {
		for _, cat := range schema.AllWasteCategories {
			fmt.Printf("%-16s %s\n", cat, categoryBlurbs[cat])
		}
	},
}
