package llm

import (
	"fmt"
	"strings"

	"github.com/fitstack/food-enrichment/internal/core/domain"
)

const deepCheckSystemPrompt = `You are a nutrition data auditor. You are given one food record on a per-100g basis. Answer the seven yes/no questions about its accuracy and give an overall confidence from 0 to 100.

Respond with a single JSON object, no other text, with exactly these keys:
{
  "serving_size_plausible": bool,    // is a 100g serving of this food plausible as stated?
  "calories_fat_consistent": bool,   // are the calories consistent with the stated fat content?
  "micronutrients_plausible": bool,  // are the vitamin and mineral values plausible for this food?
  "protein_carbs_consistent": bool,  // are protein and carbs consistent for this serving?
  "protein_quality_plausible": bool, // if this is a protein source, is the protein content plausible? (true when not relevant)
  "no_obvious_errors": bool,         // is the record free of obvious data-entry errors?
  "trustworthy": bool,               // would you trust this record overall?
  "confidence": number               // 0-100
}`

// buildDeepCheckUserPrompt renders the record for the auditor prompt.
func buildDeepCheckUserPrompt(rec *domain.FoodRecord) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Food: %s\n", rec.Name))

	if rec.Brand != "" {
		sb.WriteString(fmt.Sprintf("Brand: %s\n", rec.Brand))
	}

	if rec.Category != "" {
		sb.WriteString(fmt.Sprintf("Category: %s\n", rec.Category))
	}

	sb.WriteString("Basis: per 100g\n")
	sb.WriteString(fmt.Sprintf("Calories: %.1f kcal\n", rec.Calories))
	sb.WriteString(fmt.Sprintf("Protein: %.1f g, Carbs: %.1f g, Fat: %.1f g\n", rec.ProteinG, rec.CarbsG, rec.FatG))
	sb.WriteString(fmt.Sprintf("Fiber: %.1f g, Sugar: %.1f g\n", rec.FiberG, rec.SugarG))
	sb.WriteString(fmt.Sprintf("Sodium: %.1f mg, Potassium: %.1f mg, Calcium: %.1f mg, Iron: %.1f mg\n",
		rec.SodiumMg, rec.PotassiumMg, rec.CalciumMg, rec.IronMg))
	sb.WriteString(fmt.Sprintf("Vitamin A: %.1f mcg, Vitamin C: %.1f mg, Vitamin D: %.1f mcg\n",
		rec.VitaminAMcg, rec.VitaminCMg, rec.VitaminDMcg))

	return sb.String()
}
