package handler

import (
	"fmt"
	"strings"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// requestAbsence files a time-off request for the sender.
func (h *Handler) requestAbsence(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	analyst, err := h.analystService.GetAnalyst(chatID)
	if err != nil {
		logrus.WithField("chat_id", chatID).Warn("Analyst not found for absence request")
		msg := tgbotapi.NewMessage(chatID, "❌ You are not on the roster.\nAsk a lead to add you with /addanalyst.")
		h.client.Bot.Send(msg)
		return
	}

	if args == "" {
		msg := tgbotapi.NewMessage(chatID,
			`🏖 *Requesting time off*

Format:
/absence type start_date end_date [notes]

Types: vacation, sick_leave, personal, emergency, training, conference, comp_off

Examples:
/absence vacation 2026-07-01 2026-07-14
/absence sick_leave 2026-03-05 2026-03-05 flu

💡 Requests go to the leads for approval. Sick leave and emergencies carry no fairness debt; planned time off does.`)
		msg.ParseMode = "Markdown"
		h.client.Bot.Send(msg)
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 3 {
		msg := tgbotapi.NewMessage(chatID, "❌ Wrong format. Use: /absence type start_date end_date [notes]")
		h.client.Bot.Send(msg)
		return
	}

	start, err := parseDate(parts[1])
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to parse the start date: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	end, err := parseDate(parts[2])
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to parse the end date: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	absence, err := h.workflow.Submit(service.AbsenceRequest{
		AnalystID: analyst.ID,
		Type:      parts[0],
		StartDate: start,
		EndDate:   end,
		Notes:     strings.Join(parts[3:], " "),
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to submit absence request")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to submit the request: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	response := fmt.Sprintf(`✅ Request #%d submitted!

%s

⏳ A lead will review it. You will be notified either way.`,
		absence.ID, h.workflow.FormatAbsence(absence))

	msg := tgbotapi.NewMessage(chatID, response)
	h.client.Bot.Send(msg)
}

// showMyAbsences lists the sender's requests.
func (h *Handler) showMyAbsences(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	analyst, err := h.analystService.GetAnalyst(chatID)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ You are not on the roster.\nAsk a lead to add you with /addanalyst.")
		h.client.Bot.Send(msg)
		return
	}

	absences, err := h.workflow.ListForAnalyst(analyst.ID)
	if err != nil {
		logrus.WithError(err).Error("Failed to list absences")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load your requests: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.workflow.FormatAbsenceList(absences))
	h.client.Bot.Send(msg)
}

// showPendingAbsences lists requests waiting for review (leads only).
func (h *Handler) showPendingAbsences(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !h.requireLead(chatID) {
		return
	}

	pending, err := h.workflow.ListPending()
	if err != nil {
		logrus.WithError(err).Error("Failed to list pending absences")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load pending requests: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	if len(pending) == 0 {
		msg := tgbotapi.NewMessage(chatID, "📭 No requests waiting for review.")
		h.client.Bot.Send(msg)
		return
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("⏳ %d request(s) waiting for review:", len(pending)))
	lines = append(lines, "")
	for i := range pending {
		lines = append(lines, h.workflow.FormatAbsence(&pending[i]))
		lines = append(lines, "")
	}
	lines = append(lines, "Use /impact id before deciding, then /approve id or /reject id reason.")

	msg := tgbotapi.NewMessage(chatID, strings.Join(lines, "\n"))
	h.client.Bot.Send(msg)
}

// showImpact runs the what-if analysis for a pending request (leads only).
func (h *Handler) showImpact(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if !h.requireLead(chatID) {
		return
	}

	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "❌ Use: /impact request_id")
		h.client.Bot.Send(msg)
		return
	}

	absenceID, err := parseID(strings.TrimSpace(args))
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	report, err := h.impact.AnalyzeAbsence(absenceID)
	if err != nil {
		logrus.WithError(err).Error("Impact analysis failed")
		msg := tgbotapi.NewMessage(chatID, "❌ Impact analysis failed: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.impact.FormatImpactReport(report))
	h.client.Bot.Send(msg)
}

// approveAbsence approves a pending request (leads only).
func (h *Handler) approveAbsence(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if !h.requireLead(chatID) {
		return
	}

	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "❌ Use: /approve request_id")
		h.client.Bot.Send(msg)
		return
	}

	absenceID, err := parseID(strings.TrimSpace(args))
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	absence, err := h.workflow.Approve(absenceID)
	if err != nil {
		logrus.WithError(err).Error("Failed to approve absence")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to approve: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	response := fmt.Sprintf("✅ Request #%d approved. Affected shifts were vacated and replacements arranged where possible.\n\n%s",
		absence.ID, h.workflow.FormatAbsence(absence))

	msg := tgbotapi.NewMessage(chatID, response)
	h.client.Bot.Send(msg)
}

// rejectAbsence rejects a pending request with a reason (leads only).
func (h *Handler) rejectAbsence(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if !h.requireLead(chatID) {
		return
	}

	parts := strings.Fields(args)
	if len(parts) < 2 {
		msg := tgbotapi.NewMessage(chatID, "❌ Use: /reject request_id reason")
		h.client.Bot.Send(msg)
		return
	}

	absenceID, err := parseID(parts[0])
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	absence, err := h.workflow.Reject(absenceID, strings.Join(parts[1:], " "))
	if err != nil {
		logrus.WithError(err).Error("Failed to reject absence")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to reject: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Request #%d rejected. The analyst was notified and can fix and /resubmit it.", absence.ID))
	h.client.Bot.Send(msg)
}

// resubmitAbsence puts a rejected request back in the queue. Only the
// requester (or a lead) may do this.
func (h *Handler) resubmitAbsence(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "❌ Use: /resubmit request_id")
		h.client.Bot.Send(msg)
		return
	}

	absenceID, err := parseID(strings.TrimSpace(args))
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	if !h.mayManageAbsence(chatID, absenceID) {
		return
	}

	absence, err := h.workflow.Resubmit(absenceID)
	if err != nil {
		logrus.WithError(err).Error("Failed to resubmit absence")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to resubmit: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔁 Request #%d is pending again. The leads were notified.", absence.ID))
	h.client.Bot.Send(msg)
}

// cancelAbsence withdraws a pending request. Only the requester (or a lead)
// may do this.
func (h *Handler) cancelAbsence(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "❌ Use: /cancel request_id")
		h.client.Bot.Send(msg)
		return
	}

	absenceID, err := parseID(strings.TrimSpace(args))
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	if !h.mayManageAbsence(chatID, absenceID) {
		return
	}

	absence, err := h.workflow.Cancel(absenceID)
	if err != nil {
		logrus.WithError(err).Error("Failed to cancel absence")
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to cancel: "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🚫 Request #%d cancelled.", absence.ID))
	h.client.Bot.Send(msg)
}

// mayManageAbsence checks the sender owns the request or is a lead, replying
// with a denial otherwise.
func (h *Handler) mayManageAbsence(chatID int64, absenceID uint) bool {
	absence, err := h.workflow.GetAbsence(absenceID)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return false
	}

	isLead, err := h.analystService.IsLead(chatID)
	if err == nil && isLead {
		return true
	}

	analyst, err := h.analystService.GetAnalyst(chatID)
	if err != nil || analyst.ID != absence.AnalystID {
		msg := tgbotapi.NewMessage(chatID, "❌ Access denied. This request belongs to someone else.")
		h.client.Bot.Send(msg)
		return false
	}

	return true
}
