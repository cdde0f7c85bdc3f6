package date

import "fmt"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// Lookback returns the range of days days before to, up to to.
func Lookback(to Date, days int) Range { return Range{From: to.Add(-days), To: to} }

func (r Range) String() string { return fmt.Sprintf("%s_%s", r.From, r.To) }
