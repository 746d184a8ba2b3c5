package constants

// Intake statuses (prise en charge) for a recommendation.
const (
	IntakeUntreated   = "non_traitee"
	IntakeContacted   = "contacte"
	IntakeAppointment = "rdv_pris"
	IntakeVoicemail   = "messagerie"
	IntakeUnreachable = "injoignable"
)

// Deal stages (avancement). StageClosedWon is the terminal stage that makes
// a recommendation commission-eligible.
const (
	StageNew        = "nouveau"
	StageInProgress = "en_cours"
	StageConverted  = "transforme"
	StageClosedWon  = "acte_recrute"
	StageNoFollowUp = "sans_suite"
)

// IntakeStatuses lists the allowed intake values, in UI order.
var IntakeStatuses = []string{
	IntakeUntreated, IntakeContacted, IntakeAppointment, IntakeVoicemail, IntakeUnreachable,
}

// DealStages lists the allowed deal stages, in kanban column order.
var DealStages = []string{
	StageNew, StageInProgress, StageConverted, StageClosedWon, StageNoFollowUp,
}

// ProjectTitles is the fixed set of project categories a recommendation can carry.
var ProjectTitles = []string{
	"Vente", "Achat", "Location", "Gestion", "Location & Gestion",
	"Syndic", "Ona Entreprises", "Recrutement",
}

func IsValidIntakeStatus(s string) bool {
	return contains(IntakeStatuses, s)
}

func IsValidDealStage(s string) bool {
	return contains(DealStages, s)
}

func IsValidProjectTitle(s string) bool {
	return contains(ProjectTitles, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
