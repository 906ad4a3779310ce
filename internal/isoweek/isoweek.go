// Package isoweek implementa la aritmética de semanas ISO-8601 usada por el
// plan de requerimientos. Una semana se codifica como un entero YYYYWW
// (año*100 + semana), por ejemplo 202452 o 202601.
package isoweek

import (
	"fmt"
	"time"
)

// YearWeek es una semana ISO codificada como año*100 + semana.
type YearWeek int

// FromTime calcula la semana ISO de una fecha.
func FromTime(t time.Time) YearWeek {
	year, week := t.ISOWeek()
	return YearWeek(year*100 + week)
}

// Year retorna el año ISO de la semana.
func (yw YearWeek) Year() int {
	return int(yw) / 100
}

// Week retorna el número de semana ISO.
func (yw YearWeek) Week() int {
	return int(yw) % 100
}

// Valid verifica que la semana esté en el rango ISO (1..53).
func (yw YearWeek) Valid() bool {
	w := yw.Week()
	return yw.Year() > 0 && w >= 1 && w <= 53
}

func (yw YearWeek) String() string {
	return fmt.Sprintf("%04d%02d", yw.Year(), yw.Week())
}

// Monday retorna el lunes (primer día) de la semana ISO.
//
// El 4 de enero siempre cae en la semana 1 del año ISO, por lo que el lunes
// de la semana 1 se obtiene retrocediendo desde esa fecha y el resto de las
// semanas sumando múltiplos de 7 días. Esto tolera años con semana 53.
func (yw YearWeek) Monday() time.Time {
	jan4 := time.Date(yw.Year(), time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 { // domingo
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (yw.Week()-1)*7)
}

// Range genera todas las semanas ISO entre dos fechas, avanzando de a 7 días
// desde la fecha mínima y recalculando año/semana ISO en cada paso. No se
// incrementa el número de semana directamente: así los límites de año y los
// años con semana 53 quedan cubiertos.
func Range(min, max time.Time) []YearWeek {
	if max.Before(min) {
		return nil
	}

	var weeks []YearWeek
	seen := make(map[YearWeek]bool)
	for current := min; !current.After(max); current = current.AddDate(0, 0, 7) {
		yw := FromTime(current)
		if !seen[yw] {
			seen[yw] = true
			weeks = append(weeks, yw)
		}
	}
	return weeks
}
