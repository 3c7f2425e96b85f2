package clientsuccess

// ApplyCustomFields patches a label-keyed set of desired values onto a
// record's custom-field sequence in place. For each (label, value) pair the
// entry whose Label matches is overwritten; entries with no matching key are
// left untouched. Re-applying the same mapping yields the same result.
//
// Unknown labels are silently ignored, not an error: the set of valid
// custom-field labels is configured on the provider side and is not known
// locally, so this function cannot distinguish a typo from a label that
// simply is not configured for the record. Callers that need to catch typos
// should compare the record's labels against the mapping themselves.
func ApplyCustomFields(fields []CustomFieldValue, values map[string]interface{}) {
	if len(values) == 0 {
		return
	}

	for i := range fields {
		if value, ok := values[fields[i].Label]; ok {
			fields[i].Value = value
		}
	}
}
