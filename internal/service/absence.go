package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/metrics"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AbsenceWorkflowService struct {
	absenceRepo     repository.AbsenceRepository
	scheduleRepo    repository.ScheduleRepository
	analystRepo     repository.AnalystRepository
	replacementRepo repository.ReplacementRepository
	ledger          *FairnessLedgerService
	compOff         CompOffBalancer
	selector        *ReplacementSelectorService
	notifier        Notifier
	logger          *logrus.Logger
}

func NewAbsenceWorkflowService(
	absenceRepo repository.AbsenceRepository,
	scheduleRepo repository.ScheduleRepository,
	analystRepo repository.AnalystRepository,
	replacementRepo repository.ReplacementRepository,
	ledger *FairnessLedgerService,
	compOff CompOffBalancer,
	selector *ReplacementSelectorService,
	notifier Notifier,
) *AbsenceWorkflowService {
	return &AbsenceWorkflowService{
		absenceRepo:     absenceRepo,
		scheduleRepo:    scheduleRepo,
		analystRepo:     analystRepo,
		replacementRepo: replacementRepo,
		ledger:          ledger,
		compOff:         compOff,
		selector:        selector,
		notifier:        notifier,
		logger:          logrus.New(),
	}
}

// Submit files a new absence request. Validation happens before any write:
// a request with the same type and exact dates is a duplicate, a request
// with colliding dates is an overlap, and both are rejected with the
// existing record attached.
func (s *AbsenceWorkflowService) Submit(req AbsenceRequest) (*models.Absence, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("invalid absence request: %v", err)
	}

	start := dateutil.Normalize(req.StartDate)
	end := dateutil.Normalize(req.EndDate)
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	analyst, err := s.analystRepo.GetByID(req.AnalystID)
	if err != nil {
		return nil, err
	}
	if analyst == nil {
		return nil, ErrAnalystNotFound
	}

	existing, err := s.absenceRepo.FindExact(req.AnalystID, req.Type, start, end)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateAbsenceError{ExistingID: existing.ID}
	}

	overlapping, err := s.absenceRepo.ListOverlapping(req.AnalystID, start, end)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, &OverlapAbsenceError{Existing: overlapping[0]}
	}

	absence := &models.Absence{
		AnalystID: req.AnalystID,
		StartDate: start,
		EndDate:   end,
		Type:      req.Type,
		Status:    models.AbsenceStatusPending,
		IsPlanned: defaultPlanned(req.Type),
		Notes:     req.Notes,
	}

	// Comp-off requests must be covered by the balance up front
	if req.Type == models.AbsenceTypeCompOff {
		balance, err := s.compOff.Balance(req.AnalystID)
		if err != nil {
			return nil, err
		}
		if balance < float64(absence.DurationInDays()) {
			return nil, ErrInsufficientCompOff
		}
	}

	if err := s.absenceRepo.Create(absence); err != nil {
		s.logger.WithError(err).Error("Failed to create absence request")
		return nil, err
	}

	metrics.AbsenceTransitions.WithLabelValues(models.AbsenceStatusPending).Inc()

	s.logger.WithFields(logrus.Fields{
		"absence_id": absence.ID,
		"analyst_id": req.AnalystID,
		"type":       req.Type,
		"start":      dateutil.DayKey(start),
		"end":        dateutil.DayKey(end),
	}).Info("Absence request submitted")

	s.notifyLeads(fmt.Sprintf("📨 New %s request #%d from %s: %s to %s (%d days)",
		req.Type, absence.ID, analyst.FullName(),
		dateutil.DayKey(start), dateutil.DayKey(end), absence.DurationInDays()))

	if req.PreApproved {
		return s.Approve(absence.ID)
	}

	return absence, nil
}

// Approve moves a pending request to approved and runs the per-day coverage
// handling: screener promotion, weekend replacement, or plain removal.
func (s *AbsenceWorkflowService) Approve(absenceID uint) (*models.Absence, error) {
	absence, err := s.absenceRepo.GetByID(absenceID)
	if err != nil {
		return nil, err
	}
	if absence == nil {
		return nil, ErrAbsenceNotFound
	}

	if !absence.IsPending() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, absence.Status, models.AbsenceStatusApproved)
	}

	// Redeem comp-off before anything else so an empty balance stops the
	// approval with no side effects
	if absence.Type == models.AbsenceTypeCompOff {
		err := s.compOff.Redeem(absence.AnalystID, float64(absence.DurationInDays()),
			fmt.Sprintf("comp-off absence #%d", absence.ID), &absence.ID)
		if err != nil {
			return nil, err
		}
	}

	absence.Status = models.AbsenceStatusApproved
	absence.DenialReason = ""
	if err := s.absenceRepo.Update(absence); err != nil {
		s.logger.WithError(err).Error("Failed to persist absence approval")
		return nil, err
	}

	metrics.AbsenceTransitions.WithLabelValues(models.AbsenceStatusApproved).Inc()

	s.applyApproval(absence)

	// Vacation and other planned time off incur fairness debt, one unit per
	// day. Unplanned categories never do.
	if absence.Type == models.AbsenceTypeVacation || (absence.IsPlanned && absence.Type != models.AbsenceTypeCompOff) {
		gate := absence.Type
		if absence.Type != models.AbsenceTypeVacation {
			gate = ""
		}
		_, err := s.ledger.CreateDebt(absence.AnalystID, float64(absence.DurationInDays()),
			fmt.Sprintf("%s absence #%d (%d days)", absence.Type, absence.ID, absence.DurationInDays()),
			&absence.ID, gate)
		if err != nil {
			s.logger.WithError(err).WithField("absence_id", absence.ID).Error("Failed to record absence debt")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"absence_id": absence.ID,
		"analyst_id": absence.AnalystID,
	}).Info("Absence approved")

	if analyst, err := s.analystRepo.GetByID(absence.AnalystID); err == nil && analyst != nil {
		s.notify(analyst.ChatID, fmt.Sprintf("✅ Your %s request #%d (%s to %s) was approved.",
			absence.Type, absence.ID, dateutil.DayKey(absence.StartDate), dateutil.DayKey(absence.EndDate)))
	}

	return absence, nil
}

// applyApproval walks the absence day by day. Each day is handled and
// persisted on its own; a failure on one day is logged and the loop moves
// on, so a long absence degrades to partial coverage instead of aborting.
func (s *AbsenceWorkflowService) applyApproval(absence *models.Absence) {
	days, err := dateutil.DaysBetween(absence.StartDate, absence.EndDate)
	if err != nil {
		s.logger.WithError(err).Error("Failed to enumerate absence days")
		return
	}

	for _, day := range days {
		if err := s.coverDay(absence, day); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"absence_id": absence.ID,
				"day":        dateutil.DayKey(day),
			}).Error("Failed to handle absence day, continuing with next")
		}
	}
}

func (s *AbsenceWorkflowService) coverDay(absence *models.Absence, day time.Time) error {
	assignment, err := s.scheduleRepo.GetByAnalystAndDay(absence.AnalystID, day)
	if err != nil {
		return err
	}
	if assignment == nil {
		return nil
	}

	switch {
	case assignment.IsScreener && dateutil.IsWeekday(day) && !assignment.IsWeekendShift():
		return s.promoteScreenerColleague(absence, assignment, day)
	case assignment.IsWeekendShift() || dateutil.IsWeekend(day):
		return s.replaceWeekendShift(absence, assignment, day)
	default:
		// A plain weekday shift is simply vacated; the conflict detector
		// will surface the gap for the next generation run
		if err := s.scheduleRepo.DeleteByID(assignment.ID); err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"absence_id": absence.ID,
			"day":        dateutil.DayKey(day),
			"shift_type": assignment.ShiftType,
		}).Info("Vacated regular shift, no replacement sought")
		return nil
	}
}

// promoteScreenerColleague hands the screener role to another analyst
// already working the same shift that day, then removes the absent
// analyst's assignment.
func (s *AbsenceWorkflowService) promoteScreenerColleague(absence *models.Absence, assignment *models.ShiftAssignment, day time.Time) error {
	dayAssignments, err := s.scheduleRepo.ListByDay(day)
	if err != nil {
		return err
	}

	var colleague *models.ShiftAssignment
	for _, other := range dayAssignments {
		if other.AnalystID != absence.AnalystID &&
			other.ShiftType == assignment.ShiftType &&
			!other.IsScreener {
			colleague = other
			break
		}
	}

	if colleague == nil {
		s.logger.WithFields(logrus.Fields{
			"absence_id": absence.ID,
			"day":        dateutil.DayKey(day),
			"shift_type": assignment.ShiftType,
		}).Warn("No colleague available for screener promotion, shift left uncovered")
		return s.scheduleRepo.DeleteByID(assignment.ID)
	}

	if err := s.scheduleRepo.SetScreener(colleague.ID, true); err != nil {
		return err
	}
	if err := s.scheduleRepo.DeleteByID(assignment.ID); err != nil {
		return err
	}

	s.recordReplacement(absence, colleague.AnalystID, day, assignment.ShiftType)

	_, err = s.ledger.CreateCredit(colleague.AnalystID, 1.0,
		fmt.Sprintf("screener promotion on %s covering absence #%d", dateutil.DayKey(day), absence.ID),
		&absence.ID)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to credit promoted screener")
	}

	s.logger.WithFields(logrus.Fields{
		"absence_id": absence.ID,
		"day":        dateutil.DayKey(day),
		"promoted":   colleague.AnalystID,
	}).Info("Colleague promoted to screener")

	if analyst, err := s.analystRepo.GetByID(colleague.AnalystID); err == nil && analyst != nil {
		s.notify(analyst.ChatID, fmt.Sprintf("🛡 You are now the %s screener on %s (covering a colleague's absence).",
			assignment.ShiftType.DisplayName(), dateutil.DayKey(day)))
	}

	return nil
}

// replaceWeekendShift asks the scoring engine for a genuine substitute. On
// success the assignment changes hands and its screener flag is cleared; the
// substitute earns ledger credit and a comp-off day.
func (s *AbsenceWorkflowService) replaceWeekendShift(absence *models.Absence, assignment *models.ShiftAssignment, day time.Time) error {
	decision, err := s.selector.SelectReplacement(day, assignment.ShiftType, absence.AnalystID, nil)
	if err != nil {
		return err
	}

	if !decision.HasCandidate() {
		s.logger.WithFields(logrus.Fields{
			"absence_id": absence.ID,
			"day":        dateutil.DayKey(day),
		}).Warn("No weekend replacement found, shift left uncovered")
		return s.scheduleRepo.DeleteByID(assignment.ID)
	}

	wasScreener := assignment.IsScreener

	if err := s.scheduleRepo.Reassign(assignment.ID, decision.Candidate.ID); err != nil {
		return err
	}
	if wasScreener {
		if err := s.scheduleRepo.SetScreener(assignment.ID, false); err != nil {
			s.logger.WithError(err).Warn("Failed to clear screener flag on reassigned shift")
		}
	}

	s.recordReplacement(absence, decision.Candidate.ID, day, assignment.ShiftType)

	credit := s.ledger.CalculateAbsenceDebt(assignment.ShiftType, wasScreener)
	_, err = s.ledger.CreateCredit(decision.Candidate.ID, credit,
		fmt.Sprintf("weekend coverage on %s for absence #%d", dateutil.DayKey(day), absence.ID),
		&absence.ID)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to credit weekend replacement")
	}

	// Weekend coverage also earns a compensatory day off
	if err := s.compOff.Earn(decision.Candidate.ID, 1.0,
		fmt.Sprintf("weekend coverage on %s", dateutil.DayKey(day)), &absence.ID); err != nil {
		s.logger.WithError(err).Warn("Failed to record comp-off for weekend coverage")
	}

	s.logger.WithFields(logrus.Fields{
		"absence_id":  absence.ID,
		"day":         dateutil.DayKey(day),
		"replacement": decision.Candidate.ID,
		"confidence":  decision.Confidence,
	}).Info("Weekend shift reassigned")

	s.notify(decision.Candidate.ChatID, fmt.Sprintf("📅 You were assigned %s duty on %s (covering a colleague's absence).",
		assignment.ShiftType.DisplayName(), dateutil.DayKey(day)))

	return nil
}

func (s *AbsenceWorkflowService) recordReplacement(absence *models.Absence, replacementAnalystID uint, day time.Time, shiftType models.ShiftType) {
	replacement := &models.ReplacementAssignment{
		Reference:            uuid.NewString(),
		OriginalAnalystID:    absence.AnalystID,
		ReplacementAnalystID: replacementAnalystID,
		Day:                  day,
		ShiftType:            shiftType,
		Status:               models.ReplacementStatusActive,
	}

	if err := s.replacementRepo.Create(replacement); err != nil {
		s.logger.WithError(err).Error("Failed to record replacement assignment")
		return
	}

	metrics.ReplacementsRecorded.Inc()
}

// Reject denies a pending request. The only side effect is the recorded
// denial reason.
func (s *AbsenceWorkflowService) Reject(absenceID uint, reason string) (*models.Absence, error) {
	absence, err := s.absenceRepo.GetByID(absenceID)
	if err != nil {
		return nil, err
	}
	if absence == nil {
		return nil, ErrAbsenceNotFound
	}

	if !absence.IsPending() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, absence.Status, models.AbsenceStatusRejected)
	}

	absence.Status = models.AbsenceStatusRejected
	absence.DenialReason = reason
	if err := s.absenceRepo.Update(absence); err != nil {
		return nil, err
	}

	metrics.AbsenceTransitions.WithLabelValues(models.AbsenceStatusRejected).Inc()

	s.logger.WithFields(logrus.Fields{
		"absence_id": absence.ID,
		"reason":     reason,
	}).Info("Absence rejected")

	if analyst, err := s.analystRepo.GetByID(absence.AnalystID); err == nil && analyst != nil {
		s.notify(analyst.ChatID, fmt.Sprintf("❌ Your %s request #%d was rejected: %s",
			absence.Type, absence.ID, reason))
	}

	return absence, nil
}

// Resubmit reopens a rejected request. The denial reason is cleared and the
// request goes back through the normal approval queue.
func (s *AbsenceWorkflowService) Resubmit(absenceID uint) (*models.Absence, error) {
	absence, err := s.absenceRepo.GetByID(absenceID)
	if err != nil {
		return nil, err
	}
	if absence == nil {
		return nil, ErrAbsenceNotFound
	}

	if !absence.IsRejected() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, absence.Status, models.AbsenceStatusPending)
	}

	absence.Status = models.AbsenceStatusPending
	absence.DenialReason = ""
	if err := s.absenceRepo.Update(absence); err != nil {
		return nil, err
	}

	metrics.AbsenceTransitions.WithLabelValues("resubmitted").Inc()

	s.logger.WithField("absence_id", absence.ID).Info("Absence resubmitted")

	s.notifyLeads(fmt.Sprintf("🔁 Absence request #%d was resubmitted and awaits review.", absence.ID))

	return absence, nil
}

// Cancel withdraws a request the analyst no longer needs. Only pending
// requests can be cancelled; approved ones already reshaped the schedule.
func (s *AbsenceWorkflowService) Cancel(absenceID uint) (*models.Absence, error) {
	absence, err := s.absenceRepo.GetByID(absenceID)
	if err != nil {
		return nil, err
	}
	if absence == nil {
		return nil, ErrAbsenceNotFound
	}

	if !absence.IsPending() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, absence.Status, models.AbsenceStatusCancelled)
	}

	absence.Status = models.AbsenceStatusCancelled
	if err := s.absenceRepo.Update(absence); err != nil {
		return nil, err
	}

	metrics.AbsenceTransitions.WithLabelValues(models.AbsenceStatusCancelled).Inc()

	s.logger.WithField("absence_id", absence.ID).Info("Absence cancelled")
	return absence, nil
}

// GetAbsence returns one request by ID.
func (s *AbsenceWorkflowService) GetAbsence(absenceID uint) (*models.Absence, error) {
	return s.absenceRepo.GetByID(absenceID)
}

// ListForAnalyst returns an analyst's requests, newest first.
func (s *AbsenceWorkflowService) ListForAnalyst(analystID uint) ([]models.Absence, error) {
	return s.absenceRepo.GetByAnalystID(analystID)
}

// ListPending returns the approval queue, oldest start date first.
func (s *AbsenceWorkflowService) ListPending() ([]models.Absence, error) {
	return s.absenceRepo.ListByStatus(models.AbsenceStatusPending)
}

func defaultPlanned(absenceType string) bool {
	switch absenceType {
	case models.AbsenceTypeVacation, models.AbsenceTypeTraining, models.AbsenceTypeConference:
		return true
	}
	return false
}

func (s *AbsenceWorkflowService) notify(chatID int64, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(chatID, message); err != nil {
		metrics.NotificationsFailed.Inc()
		s.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to deliver notification")
	}
}

func (s *AbsenceWorkflowService) notifyLeads(message string) {
	leads, err := s.analystRepo.GetLeads()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load leads for notification")
		return
	}
	for _, lead := range leads {
		s.notify(lead.ChatID, message)
	}
}

// FormatAbsence renders one request for chat display.
func (s *AbsenceWorkflowService) FormatAbsence(absence *models.Absence) string {
	if absence == nil {
		return "❌ Absence request not found"
	}

	statusIcon := map[string]string{
		models.AbsenceStatusPending:   "⏳",
		models.AbsenceStatusApproved:  "✅",
		models.AbsenceStatusRejected:  "❌",
		models.AbsenceStatusCancelled: "🚫",
	}[absence.Status]

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s *Request #%d* — %s\n", statusIcon, absence.ID, absence.Type))
	result.WriteString(fmt.Sprintf("📅 %s to %s (%d days)\n",
		dateutil.DayKey(absence.StartDate), dateutil.DayKey(absence.EndDate), absence.DurationInDays()))
	result.WriteString(fmt.Sprintf("Status: %s\n", absence.Status))

	if absence.DenialReason != "" {
		result.WriteString(fmt.Sprintf("Denial reason: %s\n", absence.DenialReason))
	}
	if absence.Notes != "" {
		result.WriteString(fmt.Sprintf("Notes: %s\n", absence.Notes))
	}

	return result.String()
}

// FormatAbsenceList renders a set of requests as a compact list.
func (s *AbsenceWorkflowService) FormatAbsenceList(absences []models.Absence) string {
	if len(absences) == 0 {
		return "📭 No absence requests yet"
	}

	var result strings.Builder
	for _, absence := range absences {
		result.WriteString(fmt.Sprintf("#%d %s %s to %s — %s\n",
			absence.ID, absence.Type,
			dateutil.DayKey(absence.StartDate), dateutil.DayKey(absence.EndDate),
			absence.Status))
	}
	return result.String()
}
