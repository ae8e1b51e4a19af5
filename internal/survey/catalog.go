// Package survey holds the onboarding question catalog. The question set for
// a business type is pure data: same input, same ordered output, always ending
// with the three common questions (contact details, color theme, schedule time).
package survey

// Kind is the input widget a question renders as.
type Kind string

const (
	KindText       Kind = "text"
	KindTextarea   Kind = "textarea"
	KindRadio      Kind = "radio"
	KindCheckbox   Kind = "checkbox"
	KindTime       Kind = "time"
	KindMultiColor Kind = "multi-color"
)

type Question struct {
	ID          string
	Prompt      string
	Kind        Kind
	Options     []string
	Placeholder string
	Hint        string
}

type BusinessType struct {
	Value string
	Label string
	Icon  string
	Desc  string
}

// BusinessTypes returns the eight selectable categories, in display order.
func BusinessTypes() []BusinessType {
	return []BusinessType{
		{Value: "other", Label: "Other", Icon: "🏢", Desc: "Any other business type"},
		{Value: "finance", Label: "Finance", Icon: "💰", Desc: "Banking & Financial Services"},
		{Value: "education", Label: "Education", Icon: "🎓", Desc: "Schools & Learning"},
		{Value: "technology", Label: "Technology", Icon: "💻", Desc: "Tech & Software"},
		{Value: "real-estate", Label: "Real Estate", Icon: "🏠", Desc: "Property & Housing"},
		{Value: "healthcare", Label: "Healthcare", Icon: "🏥", Desc: "Medical & Wellness"},
		{Value: "ecommerce", Label: "E-commerce", Icon: "🛒", Desc: "Online Retail"},
		{Value: "restaurant", Label: "Restaurant", Icon: "🍽️", Desc: "Food & Dining"},
	}
}

// Known reports whether value is one of the selectable business types.
func Known(value string) bool {
	for _, bt := range BusinessTypes() {
		if bt.Value == value {
			return true
		}
	}
	return false
}

// Lookup returns the business type entry for value, or nil.
func Lookup(value string) *BusinessType {
	for _, bt := range BusinessTypes() {
		if bt.Value == value {
			b := bt
			return &b
		}
	}
	return nil
}

func commonQuestions() []Question {
	return []Question{
		{
			ID:          "contact_details",
			Prompt:      "Please provide your contact details for promotional image footers",
			Kind:        KindTextarea,
			Placeholder: "Website: www.example.com\nContact: +1234567890",
			Hint:        "This will appear on your promotional content",
		},
		{
			ID:          "color_theme",
			Prompt:      "Choose your brand color theme for promotional images",
			Kind:        KindMultiColor,
			Placeholder: "Select colors",
			Hint:        "Pick 2-5 colors that represent your brand",
		},
		{
			ID:          "post_schedule_time",
			Prompt:      "What time should we schedule your daily social media posts?",
			Kind:        KindTime,
			Placeholder: "Select time",
			Hint:        "Choose the best time to reach your audience",
		},
	}
}

// QuestionsFor returns the ordered question list for a business type.
// Unknown types fall back to the "other" set.
func QuestionsFor(businessType string) []Question {
	var qs []Question
	switch businessType {
	case "finance":
		qs = []Question{
			{ID: "financial_products", Prompt: "What financial products/services do you offer?", Kind: KindTextarea, Placeholder: "e.g., Loans, Investment, Insurance...", Hint: "Be specific about your main offerings"},
			{ID: "target_audience", Prompt: "Who is your target audience?", Kind: KindText, Placeholder: "e.g., individuals, businesses, investors", Hint: "This helps us tailor your content"},
			{ID: "social_tone", Prompt: "What tone should your content convey?", Kind: KindCheckbox, Options: []string{"Trustworthy", "Professional", "Approachable"}, Hint: "You can select multiple"},
			{ID: "image_focus", Prompt: "What should your visuals emphasize?", Kind: KindCheckbox, Options: []string{"Trust and security", "Growth and success", "Expert advice"}},
			{ID: "visual_style", Prompt: "Visual style preference:", Kind: KindCheckbox, Options: []string{"Professional corporate settings", "Personal customer stories"}},
			{ID: "include_data_visuals", Prompt: "Include infographics or data visualizations?", Kind: KindRadio, Options: []string{"Yes", "No", "Sometimes"}},
		}
	case "education":
		qs = []Question{
			{ID: "educational_services", Prompt: "What educational programs do you offer?", Kind: KindTextarea, Placeholder: "Describe your courses, degrees, training...", Hint: "Help us understand your offerings"},
			{ID: "primary_audience", Prompt: "Who are your primary audiences?", Kind: KindCheckbox, Options: []string{"Students", "Parents", "Faculty", "Alumni", "Community"}},
			{ID: "key_messages", Prompt: "Key messages about your institution:", Kind: KindTextarea, Placeholder: "What makes your institution special?"},
			{ID: "image_showcase", Prompt: "What should visuals showcase?", Kind: KindCheckbox, Options: []string{"Student achievements", "Campus life", "Faculty expertise"}},
			{ID: "learning_format", Prompt: "Highlight which format?", Kind: KindCheckbox, Options: []string{"In-person activities", "Online learning platforms"}},
			{ID: "feature_content", Prompt: "Feature in your content:", Kind: KindCheckbox, Options: []string{"Events", "Guest lectures", "Community involvement"}},
		}
	case "technology":
		qs = []Question{
			{ID: "tech_products", Prompt: "Main tech products/services:", Kind: KindTextarea, Placeholder: "SaaS, Hardware, Apps, Consulting...", Hint: "What technology solutions do you provide?"},
			{ID: "target_audience", Prompt: "Target audience:", Kind: KindCheckbox, Options: []string{"Tech professionals", "Consumers", "Businesses", "Startups", "Enterprise"}},
			{ID: "brand_values", Prompt: "Brand values to convey:", Kind: KindCheckbox, Options: []string{"Innovation", "Reliability", "User-friendliness", "Cutting-edge", "Trustworthy"}},
			{ID: "design_preference", Prompt: "Design style preference:", Kind: KindCheckbox, Options: []string{"Futuristic, sleek designs", "Practical, real-world visuals"}},
			{ID: "image_focus", Prompt: "Image focus:", Kind: KindCheckbox, Options: []string{"Product demonstrations", "Conceptual innovation"}},
			{ID: "include_interactive_content", Prompt: "Include animated/interactive visuals?", Kind: KindRadio, Options: []string{"Yes", "No", "Sometimes"}},
		}
	case "real-estate":
		qs = []Question{
			{ID: "property_specialization", Prompt: "Property specialization:", Kind: KindCheckbox, Options: []string{"Residential", "Commercial", "Luxury", "Rental", "Investment"}},
			{ID: "main_clients", Prompt: "Main clients:", Kind: KindCheckbox, Options: []string{"Buyers", "Renters", "Investors", "First-time buyers", "Commercial clients"}},
			{ID: "selling_points", Prompt: "Key selling points:", Kind: KindTextarea, Placeholder: "Location, pricing, amenities..."},
			{ID: "image_showcase", Prompt: "Showcase in visuals:", Kind: KindCheckbox, Options: []string{"Property interiors", "Neighborhood lifestyles", "Renovations"}},
			{ID: "feature_client_stories", Prompt: "Feature client testimonials?", Kind: KindRadio, Options: []string{"Yes", "No", "Sometimes"}},
		}
	case "healthcare":
		qs = []Question{
			{ID: "healthcare_services", Prompt: "Healthcare services/specialties:", Kind: KindTextarea, Placeholder: "General care, Surgery, Pediatrics...", Hint: "List your main services"},
			{ID: "primary_audience", Prompt: "Primary audience:", Kind: KindCheckbox, Options: []string{"Patients", "Families", "Healthcare professionals", "Community", "Insurance providers"}},
			{ID: "core_values", Prompt: "Core values to communicate:", Kind: KindCheckbox, Options: []string{"Trust", "Care", "Innovation", "Expertise", "Compassion"}},
			{ID: "image_highlight", Prompt: "Highlight in images:", Kind: KindCheckbox, Options: []string{"Medical staff", "Patient care", "Healthcare technology"}},
			{ID: "visual_focus", Prompt: "Visual focus:", Kind: KindCheckbox, Options: []string{"Wellness campaigns", "Testimonials", "Facilities"}},
			{ID: "include_treatment_visuals", Prompt: "Include treatment visuals/case studies?", Kind: KindRadio, Options: []string{"Yes", "No", "With patient consent only"}},
		}
	case "ecommerce":
		qs = []Question{
			{ID: "product_types", Prompt: "Main product categories:", Kind: KindTextarea, Placeholder: "Fashion, Electronics, Home goods...", Hint: "What do you sell?"},
			{ID: "main_customers", Prompt: "Main customer segments:", Kind: KindText, Placeholder: "Young adults, professionals, families..."},
			{ID: "brand_personality", Prompt: "Brand personality:", Kind: KindCheckbox, Options: []string{"Fun", "Professional", "Creative", "Trendy", "Trustworthy"}},
			{ID: "image_style", Prompt: "Image style:", Kind: KindCheckbox, Options: []string{"Product-focused images", "Lifestyle shots"}},
			{ID: "content_highlight", Prompt: "Highlight in content:", Kind: KindCheckbox, Options: []string{"Seasonal sales", "New arrivals", "Behind-the-scenes"}},
			{ID: "ugc_strategy", Prompt: "User-generated content strategy?", Kind: KindRadio, Options: []string{"Yes", "No", "Considering it"}},
		}
	case "restaurant":
		qs = []Question{
			{ID: "cuisine_experience", Prompt: "Cuisine & dining experience:", Kind: KindTextarea, Placeholder: "Italian fine dining, casual cafe...", Hint: "Describe your restaurant concept"},
			{ID: "typical_customers", Prompt: "Typical customers:", Kind: KindText, Placeholder: "Families, couples, business professionals..."},
			{ID: "unique_qualities", Prompt: "Unique qualities/atmosphere:", Kind: KindTextarea, Placeholder: "What makes your restaurant special?"},
			{ID: "image_preference", Prompt: "Image preferences:", Kind: KindCheckbox, Options: []string{"Food presentation", "Dining ambiance", "Kitchen activity"}},
			{ID: "content_highlight", Prompt: "Highlight in content:", Kind: KindCheckbox, Options: []string{"Seasonal menus", "Special events", "Customer interactions"}},
			{ID: "sustainability", Prompt: "Promote sustainable sourcing/dietary options?", Kind: KindRadio, Options: []string{"Yes", "No", "Sometimes"}},
		}
	default:
		qs = []Question{
			{ID: "business_description", Prompt: "Business type & description:", Kind: KindTextarea, Placeholder: "Tell us about your business...", Hint: "Be as detailed as possible"},
			{ID: "target_audience", Prompt: "Target audience:", Kind: KindText, Placeholder: "Who are your customers?"},
			{ID: "key_messages", Prompt: "Key messages/values:", Kind: KindTextarea, Placeholder: "What do you want to communicate?", Hint: "Your brand message"},
			{ID: "image_style", Prompt: "Preferred image style:", Kind: KindCheckbox, Options: []string{"Professional", "Casual", "Artistic", "Modern", "Traditional"}},
			{ID: "visual_focus", Prompt: "Visual focus:", Kind: KindCheckbox, Options: []string{"Products", "Services", "Customer stories"}},
			{ID: "preferred_themes", Prompt: "Preferred colors/moods/themes:", Kind: KindTextarea, Placeholder: "Describe your visual preferences..."},
		}
	}
	return append(qs, commonQuestions()...)
}
