package event

// Deferred is the post-commit hook list of one unit of work. Records are
// collected while the transaction runs and handed to the handlers only
// after persistence confirms; a rolled back transaction simply drops the
// list, so no notification ever escapes an uncommitted write.
type Deferred struct {
	records []*EventRecord
}

func (d *Deferred) Add(record *EventRecord) {
	if record == nil {
		return
	}
	d.records = append(d.records, record)
}

func (d *Deferred) Records() []*EventRecord {
	return d.records
}

// Invoke hands the collected records to the registered handlers, in the
// order they were added. Call only after the enclosing transaction commits.
func (d *Deferred) Invoke() {
	if InvokeHandlersFunc == nil {
		return
	}
	for _, record := range d.records {
		InvokeHandlersFunc(record)
	}
	d.records = nil
}
