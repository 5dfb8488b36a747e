// Package models contains the GORM persistence models and their mappers.
// Domain entities stay free of ORM tags; repositories read and write these
// models and convert at the boundary.
package models
