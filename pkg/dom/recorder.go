package dom

// Recorder collects mutations from a Document.
type Recorder struct {
	Mutations []Mutation
	cancel    func()
}

// Record starts recording the mutations of d.
func Record(d *Document) *Recorder {
	r := &Recorder{}
	r.cancel = d.Observe(func(m Mutation) {
		r.Mutations = append(r.Mutations, m)
	})
	return r
}

// Stop ends recording. The collected mutations stay available.
func (r *Recorder) Stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Reset drops the collected mutations.
func (r *Recorder) Reset() {
	r.Mutations = r.Mutations[:0]
}

// Count returns how many mutations of the given kinds were recorded. With
// no kinds it counts all of them.
func (r *Recorder) Count(kinds ...MutationKind) int {
	if len(kinds) == 0 {
		return len(r.Mutations)
	}
	n := 0
	for _, m := range r.Mutations {
		for _, k := range kinds {
			if m.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Except returns the recorded mutations whose kind is not listed.
func (r *Recorder) Except(kinds ...MutationKind) []Mutation {
	var out []Mutation
outer:
	for _, m := range r.Mutations {
		for _, k := range kinds {
			if m.Kind == k {
				continue outer
			}
		}
		out = append(out, m)
	}
	return out
}
