package emails

import (
	"fmt"
	"strings"
	"time"
)

// frDateTime renders a timestamp the way the app displays it (French locale).
func frDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

func frDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return EscapeHTML(s)
}

// ReferralNotification is sent to the receiver when a recommendation is created.
func ReferralNotification(clientName, projectTitle, prescriptorName string) (subject, html string) {
	subject = fmt.Sprintf("Nouvelle recommandation – %s", clientName)
	html = fmt.Sprintf(`
    <h2>Nouvelle recommandation</h2>
    <p>Vous venez de recevoir une recommandation de la part de %s.</p>
    <p><b>Client :</b> %s</p>
    <p><b>Projet :</b> %s</p>
    <hr />
    <p>Merci de prendre contact avec le client et de mettre à jour le statut dans Synergies.</p>`,
		orDash(prescriptorName), orDash(clientName), orDash(projectTitle))
	return subject, strings.TrimSpace(html)
}

// Reminder48h is the automatic 48h intake reminder to the receiver.
func Reminder48h(clientName, intakeStatus string, createdAt time.Time) (subject, html string) {
	subject = fmt.Sprintf("Relance – recommandation %s", clientName)
	html = fmt.Sprintf(`
    <h2>Relance automatique (48h)</h2>
    <p>Vous avez une recommandation en attente de prise en charge.</p>
    <p><b>Client :</b> %s</p>
    <p><b>Statut :</b> %s</p>
    <p style="opacity:.7">Créée le : %s</p>
    <hr />
    <p>Merci de mettre à jour le statut dans l'application.</p>`,
		orDash(clientName), EscapeHTML(intakeStatus), frDateTime(createdAt))
	return subject, strings.TrimSpace(html)
}

// ManagerReminder72h escalates a still-untreated recommendation to the
// receiver's manager.
func ManagerReminder72h(managerFirstName, receiverName, clientName string, createdAt time.Time) (subject, html string) {
	if managerFirstName == "" {
		managerFirstName = "Bonjour"
	}
	if receiverName == "" {
		receiverName = "le collaborateur concerné"
	}
	if clientName == "" {
		clientName = "Client non renseigné"
	}
	subject = fmt.Sprintf("Relance 72h – recommandation non traitée (%s)", clientName)
	html = fmt.Sprintf(`
    <p>Hello %s,</p>
    <p>Une recommandation est toujours en statut <strong>non traitée</strong> depuis plus de 72h.</p>
    <p>
      <strong>Client :</strong> %s<br />
      <strong>Receveur :</strong> %s<br />
      <strong>Date de la recommandation :</strong> %s
    </p>
    <p>Merci de voir avec %s pour qu'il mette à jour le statut dans Synergies.</p>
    <p>Bonne journée,<br />Le système Synergies</p>`,
		EscapeHTML(managerFirstName), EscapeHTML(clientName), EscapeHTML(receiverName),
		frDateTime(createdAt), EscapeHTML(receiverName))
	return subject, strings.TrimSpace(html)
}

// ClosedWonNotification tells a manager that a team member's recommendation
// reached acte_recrute and awaits validation.
func ClosedWonNotification(managerFirstName, receiverName, clientName, projectTitle string, createdAt time.Time) (subject, html string) {
	if managerFirstName == "" {
		managerFirstName = "Bonjour"
	}
	if clientName == "" {
		clientName = "un client"
	}
	subject = fmt.Sprintf("Nouvelle recommandation à valider – %s", clientName)
	html = fmt.Sprintf(`
    <p>Hello %s,</p>
    <p>Tu as une nouvelle recommandation en <strong>acte recruté</strong> réalisée par un membre de ton équipe.</p>
    <p>
      <strong>Client :</strong> %s<br />
      <strong>Receveur :</strong> %s<br />
      <strong>Date de la recommandation :</strong> %s<br />
      <strong>Projet :</strong> %s
    </p>
    <p>Merci de valider la recommandation directement dans l'application Synergies.</p>
    <p>Bonne journée,<br />Le système Synergies</p>`,
		EscapeHTML(managerFirstName), EscapeHTML(clientName), orDash(receiverName),
		frDate(createdAt), orDash(projectTitle))
	return subject, strings.TrimSpace(html)
}

// ManualReminder is sent when a prescriptor re-pings the receiver from the outbox.
func ManualReminder(clientName, projectTitle, intakeStatus, dealStage, senderName, senderEmail string) (subject, html string) {
	subject = fmt.Sprintf("Relance – recommandation %s", clientName)
	projectLine := ""
	if projectTitle != "" {
		projectLine = fmt.Sprintf("<p><b>Projet :</b> %s</p>", EscapeHTML(projectTitle))
	}
	html = fmt.Sprintf(`
    <h2>Relance</h2>
    <p>Bonjour, je me permets de relancer concernant la recommandation :</p>
    <p><b>Client :</b> %s</p>
    %s
    <p><b>Statut actuel :</b> %s / %s</p>
    <hr/>
    <p>Merci de mettre à jour le statut dans l'application.</p>
    <p style="opacity:.7">Relancé par %s (%s)</p>`,
		orDash(clientName), projectLine, EscapeHTML(intakeStatus), EscapeHTML(dealStage),
		EscapeHTML(senderName), EscapeHTML(senderEmail))
	return subject, strings.TrimSpace(html)
}

// CommissionDue reminds the direction mailbox about an unpaid commission past its due date.
func CommissionDue(clientName, prescriptorName string, amount float64, dueDate time.Time) (subject, html string) {
	subject = fmt.Sprintf("Commission à régler – %s", clientName)
	html = fmt.Sprintf(`
    <h2>Commission arrivée à échéance</h2>
    <p>Une commission n'est toujours pas réglée alors que son échéance est passée.</p>
    <p>
      <b>Client :</b> %s<br />
      <b>Prescripteur :</b> %s<br />
      <b>Montant :</b> %.2f €<br />
      <b>Échéance :</b> %s
    </p>
    <hr />
    <p>Merci de traiter le paiement dans le registre des commissions.</p>`,
		orDash(clientName), orDash(prescriptorName), amount, frDate(dueDate))
	return subject, strings.TrimSpace(html)
}

// EscapeHTML escapes HTML specials for safe interpolation.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
