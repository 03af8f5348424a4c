package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// exclusionViolation код ошибки PostgreSQL при нарушении exclusion constraint
// bookings_no_overlap (пересечение интервалов активных бронирований)
const exclusionViolation = "23P01"

var bookingColumns = []string{
	"id",
	"employee_id",
	"client_name",
	"client_email",
	"subject",
	"notes",
	"start_time",
	"end_time",
	"duration_minutes",
	"status",
	"confirm_token",
	"cancel_token",
	"reschedule_token",
	"calendar_event_id",
	"meeting_link",
	"cancelled_by",
	"cancellation_reason",
	"rescheduled_to_id",
	"created_at",
	"responded_at",
	"completed_at",
	"cancelled_at",
	"updated_at",
}

// Repository репозиторий журнала бронирований
//
// Инвариант отсутствия пересечений для активных бронирований обеспечивается
// exclusion constraint в схеме БД, а не чтением перед записью: Create просто
// выполняет вставку, и при конкурирующих запросах на один интервал ровно одна
// из них завершается успехом, вторая получает ErrSlotTaken
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Возвращает ErrSlotTaken, если интервал конфликтует с активным бронированием
// (атомарная условная вставка через exclusion constraint)
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"employee_id",
			"client_name",
			"client_email",
			"subject",
			"notes",
			"start_time",
			"end_time",
			"duration_minutes",
			"status",
			"confirm_token",
			"cancel_token",
			"reschedule_token",
		).
		Values(
			b.EmployeeID,
			b.ClientName,
			b.ClientEmail,
			b.Subject,
			b.Notes,
			b.StartTime,
			b.EndTime,
			b.DurationMinutes,
			b.Status,
			b.ConfirmToken,
			b.CancelToken,
			b.RescheduleToken,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции переноса строка блокируется до коммита
	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetActiveInRange получает активные (pending/confirmed) бронирования
// сотрудника, пересекающиеся с интервалом [from, to)
func (r *Repository) GetActiveInRange(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByEmployeeWithFilter получает бронирования сотрудника с фильтрацией
// по статусу и периоду
func (r *Repository) GetByEmployeeWithFilter(ctx context.Context, filter domain.EmployeeBookingsFilter) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"employee_id": filter.EmployeeID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings()})
	}

	selectBuilder = selectBuilder.OrderBy("start_time DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Confirm переводит бронирование из pending в confirmed
// Возвращает ErrInvalidTransition, если статус уже изменился конкурентно
func (r *Repository) Confirm(ctx context.Context, id int64) error {
	return r.conditionalUpdate(ctx, "Confirm",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusConfirmed).
			Set("responded_at", squirrel.Expr("NOW()")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": string(domain.StatusPending)}),
	)
}

// Cancel отменяет активное бронирование с фиксацией актора и причины
func (r *Repository) Cancel(ctx context.Context, id int64, actor domain.CancelActor, reason string) error {
	return r.conditionalUpdate(ctx, "Cancel",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusCancelled).
			Set("cancelled_by", actor).
			Set("cancellation_reason", reason).
			Set("cancelled_at", squirrel.Expr("NOW()")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": activeStatusStrings()}),
	)
}

// Finish переводит подтвержденное бронирование в completed или no_show
func (r *Repository) Finish(ctx context.Context, id int64, status domain.BookingStatus) error {
	if status != domain.StatusCompleted && status != domain.StatusNoShow {
		return ErrInvalidTransition
	}
	return r.conditionalUpdate(ctx, "Finish",
		psqlbuilder.Update("bookings").
			Set("status", status).
			Set("completed_at", squirrel.Expr("NOW()")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": string(domain.StatusConfirmed)}),
	)
}

// MarkRescheduled помечает активное бронирование перенесенным и связывает
// его с новой записью. Вызывается только внутри транзакции переноса вместе
// со вставкой новой записи: либо обе операции фиксируются, либо ни одна
func (r *Repository) MarkRescheduled(ctx context.Context, id int64, newID int64) error {
	return r.conditionalUpdate(ctx, "MarkRescheduled",
		psqlbuilder.Update("bookings").
			Set("status", domain.StatusRescheduled).
			Set("rescheduled_to_id", newID).
			Set("responded_at", squirrel.Expr("COALESCE(responded_at, NOW())")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": activeStatusStrings()}),
	)
}

// SetCalendarRef сохраняет результат синхронизации с внешним календарем
// Вызывается после коммита создания, ошибки не влияют на бронирование
func (r *Repository) SetCalendarRef(ctx context.Context, id int64, eventID, meetingLink *string) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("calendar_event_id", eventID).
		Set("meeting_link", meetingLink).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetCalendarRef - build update query: %v", ErrBuildQuery, err)
	}

	executor := txmanager.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetCalendarRef - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) conditionalUpdate(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var cancelledBy sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.EmployeeID,
		&b.ClientName,
		&b.ClientEmail,
		&b.Subject,
		&b.Notes,
		&b.StartTime,
		&b.EndTime,
		&b.DurationMinutes,
		&b.Status,
		&b.ConfirmToken,
		&b.CancelToken,
		&b.RescheduleToken,
		&b.CalendarEventID,
		&b.MeetingLink,
		&cancelledBy,
		&b.CancellationReason,
		&b.RescheduledToID,
		&createdAt,
		&b.RespondedAt,
		&b.CompletedAt,
		&b.CancelledAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledBy.Valid {
		actor := domain.CancelActor(cancelledBy.String)
		b.CancelledBy = &actor
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == exclusionViolation
}
