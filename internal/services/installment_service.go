package services

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"github.com/LoSkana/larpmanager-sub004/internal/config"
	"github.com/LoSkana/larpmanager-sub004/internal/models"
)

// ScheduleService decides the next amount due for a registration and
// how many days remain before its deadline. Quota 0 and deadline 0
// together mean nothing currently needs an alert.
type ScheduleService struct {
	db  Querier
	cfg config.Reader
	now func() time.Time
}

func NewScheduleService(db Querier, cfg config.Reader) *ScheduleService {
	return &ScheduleService{db: db, cfg: cfg, now: time.Now}
}

// NextDue picks the scheduling strategy from configuration and returns
// (quota, deadline) for the registration. Idempotent: unchanged inputs
// yield identical output.
func (ss *ScheduleService) NextDue(reg *models.Registration, run *models.Run) (float64, int, error) {
	if reg.CancellationDate != nil || reg.TotalOwed <= 0 {
		return 0, 0, nil
	}

	alertDays, err := ss.cfg.Int(config.KeyAlertDays, 30)
	if err != nil {
		return 0, 0, err
	}

	if !ss.cfg.Bool(config.KeyInstallmentsEnabled, false) {
		quota, deadline := nextDueByQuotas(reg.TotalOwed, reg.TotalPaid, reg.Quotas, reg.Created, run.Start, ss.now(), alertDays)
		return quota, deadline, nil
	}

	installments, err := ss.fetchInstallments(run.EventID)
	if err != nil {
		return 0, 0, err
	}

	base := reg.Created
	if ss.cfg.Bool(config.KeyDeadlineFromApprove, false) {
		if approved, err := ss.membershipApproval(reg.MemberID); err != nil {
			return 0, 0, err
		} else if approved != nil {
			base = *approved
		}
	}

	quota, deadline := nextDueByInstallments(installments, reg.TotalOwed, reg.TotalPaid, base, ss.now(), alertDays)
	return quota, deadline, nil
}

func (ss *ScheduleService) fetchInstallments(eventID int64) ([]models.RegistrationInstallment, error) {
	rows, err := ss.db.Query(`
		SELECT id, event_id, amount, days_deadline, sequence
		FROM registration_installments
		WHERE event_id = $1
		ORDER BY sequence ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []models.RegistrationInstallment
	for rows.Next() {
		var inst models.RegistrationInstallment
		if err := rows.Scan(&inst.ID, &inst.EventID, &inst.Amount, &inst.DaysDeadline, &inst.Order); err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

func (ss *ScheduleService) membershipApproval(memberID int64) (*time.Time, error) {
	var approved *time.Time
	err := ss.db.QueryRow(`
		SELECT approved FROM memberships WHERE member_id = $1
	`, memberID).Scan(&approved)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return approved, nil
}

// nextDueByQuotas splits the total into N equal quotas whose deadlines
// are spaced across the window from registration to event start: quota
// 1 falls due on the registration date, quota i at (i-1)/N of the
// window. The cumulative amount due by quota i is floor(total*i/N).
func nextDueByQuotas(totalOwed, totalPaid float64, quotas int, created, start, now time.Time, alertDays int) (float64, int) {
	if quotas < 1 {
		quotas = 1
	}
	span := start.Sub(created)

	overdue := 0.0
	for i := 1; i <= quotas; i++ {
		cumulative := math.Floor(RoundToNearestCent(totalOwed * float64(i) / float64(quotas)))
		if totalPaid >= cumulative {
			continue
		}

		deadline := start.Add(-time.Duration(quotas-i+1) * span / time.Duration(quotas))
		days := daysUntil(now, deadline)
		if days < 0 {
			overdue = cumulative
			continue
		}
		if days <= alertDays {
			return cumulative - totalPaid, days
		}
		// everything further out needs no alert yet
		break
	}

	if overdue > 0 {
		return overdue - totalPaid, 0
	}
	return 0, 0
}

// nextDueByInstallments walks the configured milestones in order,
// tracking the cumulative amount due. The first future milestone inside
// the alert window is reported with its remaining days; otherwise the
// latest overdue shortfall is reported as due immediately. Milestones
// beyond the window are skipped rather than ending the walk, so
// out-of-order deadlines still surface overdue candidates. With no
// milestones configured the full total falls due on the registration
// creation date.
func nextDueByInstallments(installments []models.RegistrationInstallment, totalOwed, totalPaid float64, base, now time.Time, alertDays int) (float64, int) {
	if len(installments) == 0 {
		installments = []models.RegistrationInstallment{{Amount: totalOwed, DaysDeadline: 0}}
	}

	sort.SliceStable(installments, func(i, j int) bool {
		return installments[i].Order < installments[j].Order
	})

	cumulative := 0.0
	overdue := 0.0
	haveOverdue := false
	for _, inst := range installments {
		cumulative = RoundToNearestCent(cumulative + inst.Amount)
		if totalPaid >= cumulative {
			continue
		}

		days := daysUntil(now, base.AddDate(0, 0, inst.DaysDeadline))
		if days < 0 {
			overdue = cumulative - totalPaid
			haveOverdue = true
			continue
		}
		if days <= alertDays {
			return cumulative - totalPaid, days
		}
	}

	if haveOverdue {
		return overdue, 0
	}
	return 0, 0
}

// daysUntil counts whole days from now to the deadline; negative when
// the deadline has passed.
func daysUntil(now, deadline time.Time) int {
	return int(deadline.Sub(now).Hours() / 24)
}
