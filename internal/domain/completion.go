package domain

// CompletionStep classifies how far a profile has progressed through the
// mandatory signup fields. The steps form a total order: the about-you
// fields must be present before kids are evaluated, and kids before
// contact methods.
type CompletionStep string

const (
	StepAboutYou CompletionStep = "about-you"
	StepKids     CompletionStep = "kids"
	StepContact  CompletionStep = "contact"
	StepComplete CompletionStep = "complete"
)

// ClassifyProfile maps a profile snapshot (possibly nil) to its completion
// step. Pure and total: the first failing predicate wins, later fields are
// never consulted once an earlier one is missing.
func ClassifyProfile(p *Profile) CompletionStep {
	if p == nil {
		return StepAboutYou
	}
	if p.Name == "" || p.Username == "" || p.LocationName == "" || len(p.Status) == 0 {
		return StepAboutYou
	}
	if len(p.KidsAges) == 0 {
		return StepKids
	}
	if len(p.ContactMethods) == 0 {
		return StepContact
	}
	return StepComplete
}

// ResumeStep returns the signup wizard step a user should land on to fill
// the first missing field. Complete profiles have no wizard step and get 0.
func ResumeStep(step CompletionStep) int {
	switch step {
	case StepAboutYou:
		return 2
	case StepKids:
		return 3
	case StepContact:
		return 4
	default:
		return 0
	}
}

// ResumePath maps a completion step to the route the client should open.
func ResumePath(step CompletionStep) string {
	switch step {
	case StepAboutYou:
		return "/signup/resume?step=2"
	case StepKids:
		return "/signup/resume?step=3"
	case StepContact:
		return "/signup/resume?step=4"
	default:
		return "/discover"
	}
}

// StepMessage is the user-facing prompt shown when resuming an unfinished
// profile.
func StepMessage(step CompletionStep) string {
	switch step {
	case StepAboutYou:
		return "Complete your profile - Tell us about you"
	case StepKids:
		return "Complete your profile - Add your kids' ages"
	case StepContact:
		return "Complete your profile - Choose how to connect"
	default:
		return "Profile complete"
	}
}
