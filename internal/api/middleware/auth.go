package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

// employeeIDHeader заголовок с ID аутентифицированного сотрудника
// Заполняется API gateway после проверки учетных данных
const employeeIDHeader = "X-Employee-ID"

type employeeIDKey struct{}

const msgUnauthorized = "требуется аутентификация сотрудника"

// EmployeeAuth извлекает ID сотрудника из заголовка и кладет его в контекст
// Запросы без заголовка отклоняются: staff-маршруты доступны только изнутри
func EmployeeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(employeeIDHeader)
		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || employeeID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, handlers.CodeAccessDenied, msgUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), employeeIDKey{}, employeeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// EmployeeID возвращает ID аутентифицированного сотрудника из контекста
func EmployeeID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(employeeIDKey{}).(int64)
	return id, ok
}
