package schedule

import "github.com/m04kA/salon-booking-service/pkg/dbmetrics"

// DBExecutor интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
