package scheduler

import (
	"time"

	"github.com/shaiso/Reporta/internal/domain"
)

// maxWeekdaySteps — верхняя граница шагов при поиске дня недели.
// Семь дней покрывают любую комбинацию, восьмой — запас на случай,
// когда кандидат сегодняшнего дня уже прошёл.
const maxWeekdaySteps = 8

// NextRun вычисляет следующее время запуска job строго после now.
//
// Чистая функция от (job, now): не читает часы и ничего не мутирует,
// поэтому её легко проверять на фиксированных моментах времени.
// Все вычисления идут в timezone now; результат возвращается как есть.
//
//   - daily:   сегодняшний день с TimeOfDay; если момент уже прошёл — завтра.
//   - weekly:  ближайший DayOfWeek с TimeOfDay строго в будущем.
//   - monthly: DayOfMonth текущего месяца, прижатый к последнему дню
//     короткого месяца; если момент уже прошёл — следующий месяц,
//     прижатие применяется заново.
//
// Постусловие: результат всегда строго позже now. Job с невалидным
// TimeOfDay до этой функции не доходит — Validate отсекает его раньше.
func NextRun(job *domain.ScheduledJob, now time.Time) time.Time {
	hour, minute, err := domain.ParseTimeOfDay(job.TimeOfDay)
	if err != nil {
		// Защитный fallback: полночь. Сюда попадает только job,
		// обошедший валидацию.
		hour, minute = 0, 0
	}

	switch job.Frequency {
	case domain.FrequencyWeekly:
		return nextWeekly(now, int(dayOfWeek(job)), hour, minute)
	case domain.FrequencyMonthly:
		return nextMonthly(now, dayOfMonth(job), hour, minute)
	default:
		return nextDaily(now, hour, minute)
	}
}

func nextDaily(now time.Time, hour, minute int) time.Time {
	candidate := atTimeOfDay(now, hour, minute)
	if !candidate.After(now) {
		candidate = atTimeOfDay(candidate.AddDate(0, 0, 1), hour, minute)
	}
	return candidate
}

func nextWeekly(now time.Time, weekday, hour, minute int) time.Time {
	candidate := atTimeOfDay(now, hour, minute)
	for i := 0; i < maxWeekdaySteps; i++ {
		if int(candidate.Weekday()) == weekday && candidate.After(now) {
			return candidate
		}
		candidate = atTimeOfDay(candidate.AddDate(0, 0, 1), hour, minute)
	}
	return candidate
}

func nextMonthly(now time.Time, day, hour, minute int) time.Time {
	year, month, _ := now.Date()

	candidate := monthlyCandidate(year, month, day, hour, minute, now.Location())
	if candidate.After(now) {
		return candidate
	}

	// Момент этого месяца уже прошёл — переходим к следующему.
	// Прижатие к длине месяца применяется заново: job с day=31
	// в феврале запускается 28-го (29-го), а в марте снова 31-го.
	next := time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	return monthlyCandidate(next.Year(), next.Month(), day, hour, minute, now.Location())
}

// monthlyCandidate строит момент запуска в заданном месяце,
// прижимая день к последнему дню короткого месяца.
func monthlyCandidate(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

// atTimeOfDay возвращает момент в тот же день, что и t, с заданным временем суток.
func atTimeOfDay(t time.Time, hour, minute int) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, hour, minute, 0, 0, t.Location())
}

// daysInMonth возвращает число дней в месяце.
// День 0 следующего месяца — последний день текущего.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dayOfWeek(job *domain.ScheduledJob) time.Weekday {
	if job.DayOfWeek == nil {
		return time.Sunday
	}
	return time.Weekday(*job.DayOfWeek)
}

func dayOfMonth(job *domain.ScheduledJob) int {
	if job.DayOfMonth == nil {
		return 1
	}
	return *job.DayOfMonth
}
