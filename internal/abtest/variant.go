package abtest

// Variant is one treatment arm of an A/B test. Counters are append-only
// and owned exclusively by the session the variant belongs to.
type Variant struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	TrafficAllocation float64 `json:"traffic_allocation"`

	Participants int     `json:"participants"`
	Conversions  int     `json:"conversions"`
	TotalValue   float64 `json:"total_value"`
}

// RecordTrial adds one participant to the variant. A converted trial
// also increments the conversion count and adds value to the running
// total.
func (v *Variant) RecordTrial(converted bool, value float64) {
	v.Participants++
	if converted {
		v.Conversions++
		v.TotalValue += value
	}
}

// ConversionRate returns conversions per participant, 0 when the
// variant has no participants.
func (v *Variant) ConversionRate() float64 {
	if v.Participants == 0 {
		return 0
	}
	return float64(v.Conversions) / float64(v.Participants)
}

// AverageValue returns total value per participant, 0 when the variant
// has no participants.
func (v *Variant) AverageValue() float64 {
	if v.Participants == 0 {
		return 0
	}
	return v.TotalValue / float64(v.Participants)
}

// metricValue returns the variant's value for the given primary metric.
func (v *Variant) metricValue(metric Metric) float64 {
	if metric == MetricAverageValue {
		return v.AverageValue()
	}
	return v.ConversionRate()
}
