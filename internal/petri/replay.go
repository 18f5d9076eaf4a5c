package petri

// ReplayResult is the outcome of token-based replay of one trace.
type ReplayResult struct {
	Trace     []string `json:"trace"`
	Produced  int      `json:"produced"`
	Consumed  int      `json:"consumed"`
	Missing   int      `json:"missing"`
	Remaining int      `json:"remaining"`
	// Unmatched lists trace activities with no transition of that label.
	Unmatched []string `json:"unmatched,omitempty"`
	Fitness   float64  `json:"fitness"`
	Fits      bool     `json:"fits"`
}

// Replay plays a trace on the net starting from initial and checks that it
// ends in final.
//
// When a transition is not enabled, the missing tokens are created on its
// input places and counted. After the last event the final marking is
// consumed; tokens left over are counted as remaining. Fitness is
//
//	½(1 − missing/consumed) + ½(1 − remaining/produced)
//
// Silent transitions are never fired during replay.
func (n *Net) Replay(initial, final Marking, trace []string) ReplayResult {
	res := ReplayResult{Trace: trace}
	m := initial.Clone()
	res.Produced = initial.Total()

	for _, activity := range trace {
		candidates := n.TransitionsByLabel(activity)
		if len(candidates) == 0 {
			res.Unmatched = append(res.Unmatched, activity)
			continue
		}
		t := candidates[0]
		for _, c := range candidates {
			if n.Enabled(m, c.Name) {
				t = c
				break
			}
		}

		for _, a := range n.Preset(t.Name) {
			if have := m[a.From]; have < a.Weight {
				res.Missing += a.Weight - have
				m[a.From] = a.Weight
			}
		}
		for _, a := range n.Preset(t.Name) {
			m[a.From] -= a.Weight
			res.Consumed += a.Weight
		}
		for _, a := range n.Postset(t.Name) {
			m[a.To] += a.Weight
			res.Produced += a.Weight
		}
	}

	for p, want := range final {
		have := m[p]
		if have < want {
			res.Missing += want - have
			have = want
		}
		m[p] = have - want
		res.Consumed += want
	}
	res.Remaining = m.Total()

	res.Fitness = fitness(res.Missing, res.Consumed, res.Remaining, res.Produced)
	res.Fits = res.Missing == 0 && res.Remaining == 0 && len(res.Unmatched) == 0
	return res
}

// LogReplay aggregates replay over many traces.
type LogReplay struct {
	Traces        []ReplayResult `json:"traces"`
	FittingTraces int            `json:"fitting_traces"`
	Fitness       float64        `json:"fitness"`
}

// ReplayLog replays every trace and computes log-level fitness from the
// summed token counts.
func (n *Net) ReplayLog(initial, final Marking, traces [][]string) LogReplay {
	out := LogReplay{Traces: make([]ReplayResult, 0, len(traces))}
	var produced, consumed, missing, remaining int
	for _, trace := range traces {
		res := n.Replay(initial, final, trace)
		out.Traces = append(out.Traces, res)
		if res.Fits {
			out.FittingTraces++
		}
		produced += res.Produced
		consumed += res.Consumed
		missing += res.Missing
		remaining += res.Remaining
	}
	out.Fitness = fitness(missing, consumed, remaining, produced)
	return out
}

func fitness(missing, consumed, remaining, produced int) float64 {
	f := 1.0
	if consumed > 0 {
		f -= 0.5 * float64(missing) / float64(consumed)
	}
	if produced > 0 {
		f -= 0.5 * float64(remaining) / float64(produced)
	}
	return f
}
