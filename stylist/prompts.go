package stylist

import "fmt"

const analysisPrompt = `Analyze this clothing item in detail.
1. Identify its name, style (e.g., streetwear, formal, bohemian), and fabric feel.
2. Detect a 5-color palette that works with it.
3. Create three distinct outfit plans (Casual, Business, Night Out).
IMPORTANT: For each plan, explicitly list 3 essential accessories (e.g., specific shoes, jewelry, headwear, bags) that elevate the look.
Provide response in pure JSON format.`

// AspectRatio is requested for every rendered look.
const AspectRatio = "1:1"

func generationPrompt(itemDescription, plan string) string {
	return fmt.Sprintf(`Create a professional 4K flat-lay fashion photograph for a %s.
The outfit MUST feature this item prominently: %s.
ARRANGEMENT: Lay out all clothing pieces and specified ACCESSORIES (shoes, bags, watch, sunglasses) neatly on a clean off-white minimalist background.
LIGHTING: Soft studio lighting with realistic shadows. STYLE: Luxury fashion magazine catalog.
Focus on high-quality textures and realistic color coordination.
FORMAT: Square image, aspect ratio %s.`, plan, itemDescription, AspectRatio)
}

func editPrompt(instruction string) string {
	return fmt.Sprintf(`Modify this outfit visualization with the following refinement: %s.
Maintain the same flat-lay composition, background, and lighting. Ensure the main item remains identical.
FORMAT: Square image, aspect ratio %s.`, instruction, AspectRatio)
}
