package model

import "time"

// Document — строка таблицы documents: именованный JSON-документ целиком.
// Используется хранилищем на базе БД.
type Document struct {
	Name string `gorm:"primaryKey;size:255"`
	Body []byte `gorm:"not null"`

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
