package directory

import (
	"strings"

	"kidzcarehub/pkg"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// OperatorURL is the SKN Health operator line linked from the sidebar.
const OperatorURL = "https://sknhealth.my3cx.us/jnfoperator"

var facilities = []pkg.Facility{
	{
		Name:     "Pitter Patter Pediatric Care",
		Phone:    "+1 (869) 766-7876",
		Location: "Basseterre, St. Kitts",
		Address:  "Central Street, Basseterre, St. Kitts",
	},
	{
		Name:     "Dr. Patrick Martin's Clinic",
		Phone:    "+1 (869) 662-2600",
		Location: "Basseterre, St. Kitts",
		Address:  "Cayon Street, Basseterre, St. Kitts",
	},
	{
		Name:     "Smithen's Medical Clinic",
		Phone:    "+1 (869) 668-5881",
		Location: "Basseterre, St. Kitts",
		Address:  "Liverpool Row, Basseterre, St. Kitts",
	},
	{
		Name:     "Joseph N. France General Hospital - Pediatric Ward",
		Phone:    "+1 (869) 465-2551",
		Location: "Buckleys Site, Basseterre, St. Kitts",
		Address:  "Buckleys Site, Basseterre, St. Kitts",
	},
}

// Facilities returns a copy of the directory with map links filled in.
func Facilities() []pkg.Facility {
	out := make([]pkg.Facility, len(facilities))
	for i, f := range facilities {
		f.MapURL = MapURL(f)
		out[i] = f
	}
	return out
}

// MapURL builds the map search link for a facility from its name and
// address, with spaces replaced by '+'.
func MapURL(f pkg.Facility) string {
	query := strings.ReplaceAll(f.Name+", "+f.Address, " ", "+")
	return mapsSearchURL + query
}

// TipSection is a titled list of health tips.
type TipSection struct {
	Title string
	Items []string
}

// HealthTips is the static advice shown under the chat.
func HealthTips() []TipSection {
	return []TipSection{
		{
			Title: "Health Tips for Kids",
			Items: []string{
				"Ensure regular pediatric check-ups and adhere to vaccination schedules.",
				"Encourage a balanced diet with plenty of vegetables, fruits, and proteins.",
				"Promote at least 1 hour of physical activity each day.",
				"Establish a consistent bedtime routine to ensure adequate sleep.",
				"Teach proper hand washing techniques to prevent infections.",
			},
		},
		{
			Title: "Vaccination Reminders",
			Items: []string{
				"Keep track of immunizations such as MMR, DTP, and annual flu shots.",
				"Follow up on booster doses as recommended by your pediatrician.",
			},
		},
	}
}
