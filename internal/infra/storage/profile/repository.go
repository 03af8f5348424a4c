package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// uniqueViolation код ошибки PostgreSQL при нарушении unique constraint
const uniqueViolation = "23505"

var profileColumns = []string{
	"id",
	"employee_id",
	"public_alias",
	"slot_duration_minutes",
	"buffer_before_minutes",
	"buffer_after_minutes",
	"min_notice_minutes",
	"max_advance_days",
	"accepting_bookings",
	"auto_confirm",
	"created_at",
	"updated_at",
}

// Repository репозиторий профилей расписания
//
// Профиль хранится в двух таблицах: scheduling_profiles (скалярные настройки)
// и profile_windows (семь строк по дням недели). Репозиторий собирает их
// в единый domain.SchedulingProfile
//
// Create и Update пишут обе таблицы через executor из контекста:
// вызывающая сторона оборачивает вызов в транзакцию, чтобы строка профиля
// и окна недели сохранялись атомарно
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория профилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByEmployeeID получает профиль расписания по ID сотрудника
func (r *Repository) GetByEmployeeID(ctx context.Context, employeeID int64) (*domain.SchedulingProfile, error) {
	return r.getOne(ctx, "GetByEmployeeID", squirrel.Eq{"employee_id": employeeID})
}

// GetByAlias получает профиль расписания по публичному алиасу
func (r *Repository) GetByAlias(ctx context.Context, alias string) (*domain.SchedulingProfile, error) {
	return r.getOne(ctx, "GetByAlias", squirrel.Eq{"public_alias": alias})
}

// Create создает профиль расписания вместе с окнами по дням недели
// Возвращает ErrAliasTaken при конфликте публичного алиаса
func (r *Repository) Create(ctx context.Context, p *domain.SchedulingProfile) (*domain.SchedulingProfile, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("scheduling_profiles").
		Columns(
			"employee_id",
			"public_alias",
			"slot_duration_minutes",
			"buffer_before_minutes",
			"buffer_after_minutes",
			"min_notice_minutes",
			"max_advance_days",
			"accepting_bookings",
			"auto_confirm",
		).
		Values(
			p.EmployeeID,
			p.PublicAlias,
			p.SlotDurationMinutes,
			p.BufferBeforeMinutes,
			p.BufferAfterMinutes,
			p.MinNoticeMinutes,
			p.MaxAdvanceDays,
			p.AcceptingBookings,
			p.AutoConfirm,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAliasTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.replaceWindows(ctx, p.ID, p.Windows); err != nil {
		return nil, fmt.Errorf("Create - save windows: %w", err)
	}

	return p, nil
}

// Update обновляет профиль расписания и перезаписывает окна по дням недели
func (r *Repository) Update(ctx context.Context, p *domain.SchedulingProfile) (*domain.SchedulingProfile, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("scheduling_profiles").
		Set("public_alias", p.PublicAlias).
		Set("slot_duration_minutes", p.SlotDurationMinutes).
		Set("buffer_before_minutes", p.BufferBeforeMinutes).
		Set("buffer_after_minutes", p.BufferAfterMinutes).
		Set("min_notice_minutes", p.MinNoticeMinutes).
		Set("max_advance_days", p.MaxAdvanceDays).
		Set("accepting_bookings", p.AcceptingBookings).
		Set("auto_confirm", p.AutoConfirm).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAliasTaken
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	if err := r.replaceWindows(ctx, p.ID, p.Windows); err != nil {
		return nil, fmt.Errorf("Update - save windows: %w", err)
	}

	return p, nil
}

func (r *Repository) getOne(ctx context.Context, op string, pred squirrel.Eq) (*domain.SchedulingProfile, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(profileColumns...).
		From("scheduling_profiles").
		Where(pred).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var p domain.SchedulingProfile
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.EmployeeID,
		&p.PublicAlias,
		&p.SlotDurationMinutes,
		&p.BufferBeforeMinutes,
		&p.BufferAfterMinutes,
		&p.MinNoticeMinutes,
		&p.MaxAdvanceDays,
		&p.AcceptingBookings,
		&p.AutoConfirm,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan profile: %v", ErrScanRow, op, err)
	}

	if err := r.loadWindows(ctx, &p); err != nil {
		return nil, fmt.Errorf("%s - load windows: %w", op, err)
	}

	return &p, nil
}

func (r *Repository) loadWindows(ctx context.Context, p *domain.SchedulingProfile) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "start_time", "end_time", "enabled").
		From("profile_windows").
		Where(squirrel.Eq{"profile_id": p.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var w domain.WeekdayWindow
		if err := rows.Scan(&weekday, &w.Start, &w.End, &w.Enabled); err != nil {
			return fmt.Errorf("%w: loadWindows - scan window: %v", ErrScanRow, err)
		}
		if weekday >= 0 && weekday < len(p.Windows) {
			p.Windows[weekday] = w
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadWindows - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// replaceWindows полностью перезаписывает окна профиля (семь строк)
func (r *Repository) replaceWindows(ctx context.Context, profileID int64, windows [7]domain.WeekdayWindow) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("profile_windows").
		Where(squirrel.Eq{"profile_id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWindows - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: replaceWindows - execute delete: %v", ErrExecQuery, err)
	}

	insertBuilder := psqlbuilder.Insert("profile_windows").
		Columns("profile_id", "weekday", "start_time", "end_time", "enabled")

	for weekday, w := range windows {
		insertBuilder = insertBuilder.Values(profileID, weekday, w.Start, w.End, w.Enabled)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWindows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: replaceWindows - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
