package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	profileRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/profile"
	staffClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/profile/models"
)

// Service сервис настроек расписания (settings resolver)
//
// Профиль создается лениво: первое обращение к сотруднику без профиля
// сохраняет профиль с настройками по умолчанию. Любой прочитанный профиль
// проходит через MergeDefaults, поэтому наружу всегда уходит полный набор
// настроек. Запись профиля идет под транзакцией: скалярная строка и окна
// недели сохраняются вместе либо не сохраняются вовсе
type Service struct {
	profileRepo ProfileRepository
	staffClient StaffServiceClient
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса настроек расписания
func NewService(
	profileRepo ProfileRepository,
	staffClient StaffServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		profileRepo: profileRepo,
		staffClient: staffClient,
		txManager:   txManager,
		logger:      logger,
	}
}

// Resolve находит профиль по числовому ID сотрудника или публичному алиасу
// Для существующего сотрудника без профиля лениво создает профиль по умолчанию
//
// Сначала ищется точное совпадение алиаса, и только потом строка трактуется
// как числовой ID: полностью числовой алиас не должен перехватываться
// разбором ID
func (s *Service) Resolve(ctx context.Context, idOrAlias string) (*domain.SchedulingProfile, error) {
	profile, err := s.profileRepo.GetByAlias(ctx, idOrAlias)
	if err == nil {
		profile.MergeDefaults()
		return profile, nil
	}
	if !errors.Is(err, profileRepo.ErrProfileNotFound) {
		s.logger.Error("Resolve: repository error for alias=%s: %v", idOrAlias, err)
		return nil, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	if employeeID, parseErr := strconv.ParseInt(idOrAlias, 10, 64); parseErr == nil {
		return s.ResolveByEmployeeID(ctx, employeeID)
	}

	s.logger.Warn("Resolve: alias=%s not found", idOrAlias)
	return nil, ErrEmployeeNotFound
}

// ResolveByEmployeeID находит профиль по числовому ID сотрудника
func (s *Service) ResolveByEmployeeID(ctx context.Context, employeeID int64) (*domain.SchedulingProfile, error) {
	profile, err := s.profileRepo.GetByEmployeeID(ctx, employeeID)
	if err == nil {
		profile.MergeDefaults()
		return profile, nil
	}

	if !errors.Is(err, profileRepo.ErrProfileNotFound) {
		s.logger.Error("ResolveByEmployeeID: repository error for employee_id=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: ResolveByEmployeeID - repository error: %v", ErrInternal, err)
	}

	// Профиля нет: проверяем сотрудника в StaffService и создаем профиль лениво
	employee, err := s.staffClient.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, staffClient.ErrEmployeeNotFound) {
			s.logger.Warn("ResolveByEmployeeID: employee_id=%d not found in StaffService", employeeID)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("ResolveByEmployeeID: StaffService error for employee_id=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: ResolveByEmployeeID - staff service error: %v", ErrInternal, err)
	}
	if !employee.Active {
		s.logger.Warn("ResolveByEmployeeID: employee_id=%d is inactive", employeeID)
		return nil, ErrEmployeeNotFound
	}

	var created *domain.SchedulingProfile
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.profileRepo.Create(txCtx, domain.DefaultProfile(employeeID))
		return createErr
	})
	if err != nil {
		// Конкурентное ленивое создание: профиль уже вставлен другим запросом
		if errors.Is(err, profileRepo.ErrAliasTaken) {
			existing, getErr := s.profileRepo.GetByEmployeeID(ctx, employeeID)
			if getErr == nil {
				existing.MergeDefaults()
				return existing, nil
			}
		}
		s.logger.Error("ResolveByEmployeeID: failed to create default profile for employee_id=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: ResolveByEmployeeID - create default profile: %v", ErrInternal, err)
	}

	s.logger.Info("ResolveByEmployeeID: created default profile for employee_id=%d", employeeID)
	return created, nil
}

// GetSettings возвращает настройки расписания сотрудника
func (s *Service) GetSettings(ctx context.Context, employeeID int64) (*models.SettingsResponse, error) {
	profile, err := s.ResolveByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainProfile(profile), nil
}

// UpdateSettings обновляет настройки расписания сотрудника
// Полученные значения проходят через MergeDefaults: выход за допустимые
// границы заменяется значениями по умолчанию
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for employee_id=%d", req.EmployeeID)

	profile, err := s.ResolveByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	if err := req.ApplyTo(profile); err != nil {
		s.logger.Warn("UpdateSettings: invalid settings for employee_id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	profile.MergeDefaults()

	var updated *domain.SchedulingProfile
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var updateErr error
		updated, updateErr = s.profileRepo.Update(txCtx, profile)
		return updateErr
	})
	if err != nil {
		if errors.Is(err, profileRepo.ErrAliasTaken) {
			s.logger.Warn("UpdateSettings: alias conflict for employee_id=%d", req.EmployeeID)
			return nil, ErrAliasTaken
		}
		s.logger.Error("UpdateSettings: repository error for employee_id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: successfully updated settings for employee_id=%d", req.EmployeeID)
	return models.FromDomainProfile(updated), nil
}
