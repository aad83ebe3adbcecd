package service

import (
	"errors"
	"sort"
	"time"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/models"
	"github.com/bishwashp/ShiftPlanner-sub003/internal/repository"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/dateutil"
)

// In-memory stand-ins for the GORM repositories. They reproduce the pieces
// of repository behavior the services depend on: normalized days, slot
// uniqueness, not-found semantics and stable ordering.

type fakeScheduleRepo struct {
	assignments []*models.ShiftAssignment
	nextID      uint
}

var _ repository.ScheduleRepository = (*fakeScheduleRepo)(nil)

func (f *fakeScheduleRepo) Create(assignment *models.ShiftAssignment) error {
	assignment.Day = dateutil.Normalize(assignment.Day)
	for _, existing := range f.assignments {
		if existing.AnalystID == assignment.AnalystID && existing.SameDay(assignment.Day) {
			return repository.ErrSlotTaken
		}
	}
	f.nextID++
	assignment.ID = f.nextID
	f.assignments = append(f.assignments, assignment)
	return nil
}

func (f *fakeScheduleRepo) CreateBatch(assignments []*models.ShiftAssignment) (int, int, error) {
	created, skipped := 0, 0
	for _, assignment := range assignments {
		if err := f.Create(assignment); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				skipped++
				continue
			}
			return 0, 0, err
		}
		created++
	}
	return created, skipped, nil
}

func (f *fakeScheduleRepo) GetByID(id uint) (*models.ShiftAssignment, error) {
	for _, assignment := range f.assignments {
		if assignment.ID == id {
			return assignment, nil
		}
	}
	return nil, nil
}

func (f *fakeScheduleRepo) GetByAnalystAndDay(analystID uint, day time.Time) (*models.ShiftAssignment, error) {
	day = dateutil.Normalize(day)
	for _, assignment := range f.assignments {
		if assignment.AnalystID == analystID && assignment.SameDay(day) {
			return assignment, nil
		}
	}
	return nil, nil
}

func (f *fakeScheduleRepo) ListByDay(day time.Time) ([]*models.ShiftAssignment, error) {
	day = dateutil.Normalize(day)
	var out []*models.ShiftAssignment
	for _, assignment := range f.assignments {
		if assignment.SameDay(day) {
			out = append(out, assignment)
		}
	}
	sortAssignments(out)
	return out, nil
}

func (f *fakeScheduleRepo) ListByDateRange(start, end time.Time) ([]*models.ShiftAssignment, error) {
	start = dateutil.Normalize(start)
	end = dateutil.Normalize(end)
	var out []*models.ShiftAssignment
	for _, assignment := range f.assignments {
		if !assignment.Day.Before(start) && !assignment.Day.After(end) {
			out = append(out, assignment)
		}
	}
	sortAssignments(out)
	return out, nil
}

func (f *fakeScheduleRepo) ListByAnalystAndDateRange(analystID uint, start, end time.Time) ([]*models.ShiftAssignment, error) {
	start = dateutil.Normalize(start)
	end = dateutil.Normalize(end)
	var out []*models.ShiftAssignment
	for _, assignment := range f.assignments {
		if assignment.AnalystID == analystID && !assignment.Day.Before(start) && !assignment.Day.After(end) {
			out = append(out, assignment)
		}
	}
	sortAssignments(out)
	return out, nil
}

func (f *fakeScheduleRepo) CountByAnalystSince(analystID uint, since time.Time) (int64, error) {
	since = dateutil.Normalize(since)
	var count int64
	for _, assignment := range f.assignments {
		if assignment.AnalystID == analystID && !assignment.Day.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeScheduleRepo) Reassign(id uint, newAnalystID uint) error {
	for _, assignment := range f.assignments {
		if assignment.ID == id {
			assignment.AnalystID = newAnalystID
			return nil
		}
	}
	return errors.New("shift assignment not found")
}

func (f *fakeScheduleRepo) SetScreener(id uint, isScreener bool) error {
	for _, assignment := range f.assignments {
		if assignment.ID == id {
			assignment.IsScreener = isScreener
			return nil
		}
	}
	return errors.New("shift assignment not found")
}

func (f *fakeScheduleRepo) DeleteByID(id uint) error {
	for i, assignment := range f.assignments {
		if assignment.ID == id {
			f.assignments = append(f.assignments[:i], f.assignments[i+1:]...)
			return nil
		}
	}
	return errors.New("shift assignment not found")
}

func (f *fakeScheduleRepo) Exists(analystID uint, day time.Time) (bool, error) {
	assignment, _ := f.GetByAnalystAndDay(analystID, day)
	return assignment != nil, nil
}

func sortAssignments(assignments []*models.ShiftAssignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		if !assignments[i].Day.Equal(assignments[j].Day) {
			return assignments[i].Day.Before(assignments[j].Day)
		}
		if assignments[i].ShiftType != assignments[j].ShiftType {
			return assignments[i].ShiftType < assignments[j].ShiftType
		}
		return assignments[i].ID < assignments[j].ID
	})
}

type fakeAnalystRepo struct {
	analysts []*models.Analyst
	nextID   uint
}

var _ repository.AnalystRepository = (*fakeAnalystRepo)(nil)

func (f *fakeAnalystRepo) Create(analyst *models.Analyst) error {
	for _, existing := range f.analysts {
		if existing.ChatID == analyst.ChatID {
			return errors.New("analyst already registered")
		}
	}
	f.nextID++
	if analyst.ID == 0 {
		analyst.ID = f.nextID
	}
	if analyst.CreatedAt.IsZero() {
		analyst.CreatedAt = time.Now()
	}
	f.analysts = append(f.analysts, analyst)
	return nil
}

func (f *fakeAnalystRepo) Update(analyst *models.Analyst) error {
	for i, existing := range f.analysts {
		if existing.ID == analyst.ID {
			f.analysts[i] = analyst
			return nil
		}
	}
	return errors.New("analyst not found")
}

func (f *fakeAnalystRepo) GetByID(id uint) (*models.Analyst, error) {
	for _, analyst := range f.analysts {
		if analyst.ID == id {
			return analyst, nil
		}
	}
	return nil, nil
}

func (f *fakeAnalystRepo) GetByChatID(chatID int64) (*models.Analyst, error) {
	for _, analyst := range f.analysts {
		if analyst.ChatID == chatID {
			return analyst, nil
		}
	}
	return nil, nil
}

func (f *fakeAnalystRepo) GetAll() ([]*models.Analyst, error) {
	out := make([]*models.Analyst, len(f.analysts))
	copy(out, f.analysts)
	sortAnalysts(out)
	return out, nil
}

func (f *fakeAnalystRepo) ListActive() ([]*models.Analyst, error) {
	var out []*models.Analyst
	for _, analyst := range f.analysts {
		if analyst.Active {
			out = append(out, analyst)
		}
	}
	sortAnalysts(out)
	return out, nil
}

func (f *fakeAnalystRepo) ListActiveByShiftType(shiftType models.ShiftType) ([]*models.Analyst, error) {
	var out []*models.Analyst
	for _, analyst := range f.analysts {
		if analyst.Active && analyst.ShiftType == shiftType {
			out = append(out, analyst)
		}
	}
	sortAnalysts(out)
	return out, nil
}

func (f *fakeAnalystRepo) SetActive(id uint, active bool) error {
	for _, analyst := range f.analysts {
		if analyst.ID == id {
			analyst.Active = active
			return nil
		}
	}
	return errors.New("analyst not found")
}

func (f *fakeAnalystRepo) SetRole(chatID int64, role string) error {
	for _, analyst := range f.analysts {
		if analyst.ChatID == chatID {
			analyst.Role = role
			return nil
		}
	}
	return errors.New("analyst not found")
}

func (f *fakeAnalystRepo) Exists(chatID int64) (bool, error) {
	analyst, _ := f.GetByChatID(chatID)
	return analyst != nil, nil
}

func (f *fakeAnalystRepo) GetLeads() ([]*models.Analyst, error) {
	var out []*models.Analyst
	for _, analyst := range f.analysts {
		if analyst.IsLead() {
			out = append(out, analyst)
		}
	}
	return out, nil
}

func (f *fakeAnalystRepo) GetStats() (int, int, error) {
	active := 0
	for _, analyst := range f.analysts {
		if analyst.Active {
			active++
		}
	}
	return len(f.analysts), active, nil
}

func (f *fakeAnalystRepo) Close() error { return nil }

func sortAnalysts(analysts []*models.Analyst) {
	sort.SliceStable(analysts, func(i, j int) bool {
		if !analysts[i].CreatedAt.Equal(analysts[j].CreatedAt) {
			return analysts[i].CreatedAt.Before(analysts[j].CreatedAt)
		}
		return analysts[i].ID < analysts[j].ID
	})
}

type fakeAbsenceRepo struct {
	absences []*models.Absence
	nextID   uint
}

var _ repository.AbsenceRepository = (*fakeAbsenceRepo)(nil)

func (f *fakeAbsenceRepo) Create(absence *models.Absence) error {
	f.nextID++
	absence.ID = f.nextID
	if absence.CreatedAt.IsZero() {
		absence.CreatedAt = time.Now()
	}
	f.absences = append(f.absences, absence)
	return nil
}

func (f *fakeAbsenceRepo) Update(absence *models.Absence) error {
	for i, existing := range f.absences {
		if existing.ID == absence.ID {
			f.absences[i] = absence
			return nil
		}
	}
	return errors.New("absence not found")
}

func (f *fakeAbsenceRepo) GetByID(id uint) (*models.Absence, error) {
	for _, absence := range f.absences {
		if absence.ID == id {
			return absence, nil
		}
	}
	return nil, nil
}

func (f *fakeAbsenceRepo) GetByAnalystID(analystID uint) ([]models.Absence, error) {
	var out []models.Absence
	for _, absence := range f.absences {
		if absence.AnalystID == analystID {
			out = append(out, *absence)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (f *fakeAbsenceRepo) FindExact(analystID uint, absenceType string, start, end time.Time) (*models.Absence, error) {
	probe := &models.Absence{Type: absenceType, StartDate: start, EndDate: end}
	for _, absence := range f.absences {
		if absence.AnalystID == analystID &&
			absence.SameRequest(probe) &&
			(absence.IsPending() || absence.IsApproved()) {
			return absence, nil
		}
	}
	return nil, nil
}

func (f *fakeAbsenceRepo) ListOverlapping(analystID uint, start, end time.Time) ([]models.Absence, error) {
	var out []models.Absence
	for _, absence := range f.absences {
		if absence.AnalystID == analystID &&
			!absence.StartDate.After(end) &&
			!absence.EndDate.Before(start) &&
			(absence.IsPending() || absence.IsApproved()) {
			out = append(out, *absence)
		}
	}
	return out, nil
}

func (f *fakeAbsenceRepo) ListApprovedOnDay(day time.Time) ([]models.Absence, error) {
	day = dateutil.Normalize(day)
	var out []models.Absence
	for _, absence := range f.absences {
		if absence.IsApproved() && absence.Covers(day) {
			out = append(out, *absence)
		}
	}
	return out, nil
}

func (f *fakeAbsenceRepo) ListByStatus(status string) ([]models.Absence, error) {
	var out []models.Absence
	for _, absence := range f.absences {
		if absence.Status == status {
			out = append(out, *absence)
		}
	}
	return out, nil
}

func (f *fakeAbsenceRepo) Delete(id uint) error {
	for i, absence := range f.absences {
		if absence.ID == id {
			f.absences = append(f.absences[:i], f.absences[i+1:]...)
			return nil
		}
	}
	return errors.New("absence not found")
}

type fakeDebtRepo struct {
	entries []*models.FairnessDebtEntry
	nextID  uint
}

var _ repository.FairnessDebtRepository = (*fakeDebtRepo)(nil)

func (f *fakeDebtRepo) Create(entry *models.FairnessDebtEntry) error {
	f.nextID++
	entry.ID = f.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeDebtRepo) GetByID(id uint) (*models.FairnessDebtEntry, error) {
	for _, entry := range f.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, nil
}

func (f *fakeDebtRepo) ListByAnalyst(analystID uint) ([]models.FairnessDebtEntry, error) {
	var out []models.FairnessDebtEntry
	for _, entry := range f.entries {
		if entry.AnalystID == analystID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (f *fakeDebtRepo) ListOutstanding(analystID uint) ([]models.FairnessDebtEntry, error) {
	var out []models.FairnessDebtEntry
	for _, entry := range f.entries {
		if entry.AnalystID == analystID && entry.IsOutstanding() {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (f *fakeDebtRepo) SumNetDebt(analystID uint) (float64, error) {
	var sum float64
	for _, entry := range f.entries {
		if entry.AnalystID == analystID && (entry.ResolvedAt == nil || entry.Amount < 0) {
			sum += entry.Amount
		}
	}
	return sum, nil
}

func (f *fakeDebtRepo) Resolve(id uint) error {
	for _, entry := range f.entries {
		if entry.ID == id && entry.ResolvedAt == nil {
			now := time.Now()
			entry.ResolvedAt = &now
			return nil
		}
	}
	return errors.New("debt entry not found or already resolved")
}

type fakeReplacementRepo struct {
	replacements []*models.ReplacementAssignment
	nextID       uint
}

var _ repository.ReplacementRepository = (*fakeReplacementRepo)(nil)

func (f *fakeReplacementRepo) Create(replacement *models.ReplacementAssignment) error {
	replacement.Day = dateutil.Normalize(replacement.Day)
	f.nextID++
	replacement.ID = f.nextID
	if replacement.CreatedAt.IsZero() {
		replacement.CreatedAt = time.Now()
	}
	f.replacements = append(f.replacements, replacement)
	return nil
}

func (f *fakeReplacementRepo) GetByReference(reference string) (*models.ReplacementAssignment, error) {
	for _, replacement := range f.replacements {
		if replacement.Reference == reference {
			return replacement, nil
		}
	}
	return nil, nil
}

func (f *fakeReplacementRepo) ListByAnalyst(replacementAnalystID uint) ([]models.ReplacementAssignment, error) {
	var out []models.ReplacementAssignment
	for _, replacement := range f.replacements {
		if replacement.ReplacementAnalystID == replacementAnalystID {
			out = append(out, *replacement)
		}
	}
	return out, nil
}

func (f *fakeReplacementRepo) CountActiveSince(replacementAnalystID uint, since time.Time) (int64, error) {
	since = dateutil.Normalize(since)
	var count int64
	for _, replacement := range f.replacements {
		if replacement.ReplacementAnalystID == replacementAnalystID &&
			replacement.IsActive() &&
			!replacement.Day.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReplacementRepo) Reverse(reference string) error {
	for _, replacement := range f.replacements {
		if replacement.Reference == reference && replacement.IsActive() {
			replacement.Status = models.ReplacementStatusReversed
			return nil
		}
	}
	return errors.New("active replacement not found")
}

type fakeCompOffRepo struct {
	entries []*models.CompOffEntry
	nextID  uint
}

var _ repository.CompOffRepository = (*fakeCompOffRepo)(nil)

func (f *fakeCompOffRepo) Create(entry *models.CompOffEntry) error {
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeCompOffRepo) Balance(analystID uint) (float64, error) {
	var sum float64
	for _, entry := range f.entries {
		if entry.AnalystID == analystID {
			sum += entry.Days
		}
	}
	return sum, nil
}

func (f *fakeCompOffRepo) ListByAnalyst(analystID uint) ([]models.CompOffEntry, error) {
	var out []models.CompOffEntry
	for _, entry := range f.entries {
		if entry.AnalystID == analystID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	sent map[int64][]string
	err  error
}

var _ Notifier = (*fakeNotifier)(nil)

func (f *fakeNotifier) Notify(chatID int64, message string) error {
	if f.err != nil {
		return f.err
	}
	if f.sent == nil {
		f.sent = make(map[int64][]string)
	}
	f.sent[chatID] = append(f.sent[chatID], message)
	return nil
}

// testEnv wires the full service graph over the in-memory repositories so
// workflow tests exercise the real collaborators end to end.
type testEnv struct {
	scheduleRepo    *fakeScheduleRepo
	analystRepo     *fakeAnalystRepo
	absenceRepo     *fakeAbsenceRepo
	debtRepo        *fakeDebtRepo
	replacementRepo *fakeReplacementRepo
	compOffRepo     *fakeCompOffRepo
	notifier        *fakeNotifier

	ledger   *FairnessLedgerService
	compOff  *CompOffService
	selector *ReplacementSelectorService
	workflow *AbsenceWorkflowService
	impact   *ImpactAnalyzerService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		scheduleRepo:    &fakeScheduleRepo{},
		analystRepo:     &fakeAnalystRepo{},
		absenceRepo:     &fakeAbsenceRepo{},
		debtRepo:        &fakeDebtRepo{},
		replacementRepo: &fakeReplacementRepo{},
		compOffRepo:     &fakeCompOffRepo{},
		notifier:        &fakeNotifier{},
	}

	env.ledger = NewFairnessLedgerService(env.debtRepo)
	env.compOff = NewCompOffService(env.compOffRepo)
	env.selector = NewReplacementSelectorService(env.analystRepo, env.scheduleRepo, env.absenceRepo, env.replacementRepo, env.ledger)
	env.workflow = NewAbsenceWorkflowService(env.absenceRepo, env.scheduleRepo, env.analystRepo,
		env.replacementRepo, env.ledger, env.compOff, env.selector, env.notifier)
	env.impact = NewImpactAnalyzerService(env.absenceRepo, env.scheduleRepo, env.analystRepo, env.selector)

	return env
}
