package constants

const (
	CreateReco        = "create_reco"
	ViewOwn           = "view_own"
	AddNote           = "add_note"
	SuggestFeature    = "suggest_feature"
	ViewDirection     = "view_direction"
	ManageCommissions = "manage_commissions"
	ViewTeams         = "view_teams"
	ExportData        = "export_data"
)
