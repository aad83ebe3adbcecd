package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)

	// Schedule commands
	case "schedule":
		h.showSchedule(message, args)
	case "conflicts":
		h.showConflicts(message, args)
	case "generate":
		h.generateSchedule(message, args)

	// Absence commands
	case "absence":
		h.requestAbsence(message, args)
	case "myabsences":
		h.showMyAbsences(message)
	case "pending":
		h.showPendingAbsences(message)
	case "impact":
		h.showImpact(message, args)
	case "approve":
		h.approveAbsence(message, args)
	case "reject":
		h.rejectAbsence(message, args)
	case "resubmit":
		h.resubmitAbsence(message, args)
	case "cancel":
		h.cancelAbsence(message, args)

	// Roster and ledger commands
	case "shifts":
		h.showShiftDefinitions(message)
	case "profile":
		h.showProfile(message)
	case "setshift":
		h.setShift(message, args)
	case "balance":
		h.showBalance(message)
	case "roster":
		h.showRoster(message)
	case "addanalyst":
		h.addAnalyst(message, args)
	case "promote":
		h.promoteAnalyst(message, args)
	case "deactivate":
		h.setAnalystActive(message, args, false)
	case "reactivate":
		h.setAnalystActive(message, args, true)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Unknown command. Use /help for the list of commands.")
	h.client.Bot.Send(msg)
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	text := `👋 Welcome to ShiftPlanner!

I keep the analyst schedule covered: I spot coverage gaps, fill open shifts, and handle time-off requests with automatic replacements.

If you are not on the roster yet, ask a lead to add you with /addanalyst.

Use /help to see every command.`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	text := `📋 Available commands:

📅 Schedule:
/schedule start end - Show assignments for a date range
    Example: /schedule 2026-03-02 2026-03-08
/conflicts start end - Check a date range for coverage gaps
/generate start end - Fill open slots for a date range (leads)

🏖 Absences:
/absence type start end [notes] - Request time off
    Types: vacation, sick_leave, personal, emergency, training, conference, comp_off
    Example: /absence vacation 2026-07-01 2026-07-14
/myabsences - My requests and their status
/pending - Requests waiting for review (leads)
/impact id - Coverage impact of a pending request (leads)
/approve id - Approve a request (leads)
/reject id reason - Reject a request (leads)
/resubmit id - Resubmit a rejected request
/cancel id - Cancel a pending request

👥 Roster:
/shifts - Shift hours for this region
/profile - My roster entry
/setshift shift - Move to a different rotation
/balance - My comp-off balance and fairness ledger
/roster - Everyone on the roster (leads)
/addanalyst chat_id shift first_name [last_name] - Add an analyst (leads)
    Shifts: AM, PM, WEEKEND, DAY
/promote chat_id - Grant lead rights (leads)
/deactivate chat_id - Remove from rotation, keep history (leads)
/reactivate chat_id - Return to rotation (leads)

🛠 Utilities:
/start - Welcome message
/help - This message

Dates are YYYY-MM-DD (DD.MM.YYYY also works).`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

// parseDate accepts ISO dates first and the dotted European form as a fallback.
func parseDate(dateStr string) (time.Time, error) {
	if t, err := dateutil.ParseDay(dateStr); err == nil {
		return t, nil
	}
	if t, err := time.Parse("02.01.2006", dateStr); err == nil {
		return dateutil.Normalize(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

// requireLead resolves the sender and replies with a denial when the sender
// is not a lead. A false return means the caller should stop.
func (h *Handler) requireLead(chatID int64) bool {
	isLead, err := h.analystService.IsLead(chatID)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to check permissions: "+err.Error())
		h.client.Bot.Send(msg)
		return false
	}

	if !isLead {
		msg := tgbotapi.NewMessage(chatID, "❌ Access denied. This command is for leads only.")
		h.client.Bot.Send(msg)
		return false
	}

	return true
}
