package utils

// FormatDOB renders a YYYYMMDD date of birth as YYYY-MM-DD. Values that are
// not eight characters pass through, and an empty value displays as "None".
func FormatDOB(dob string) string {
	if dob == "" {
		return "None"
	}
	if len(dob) != 8 {
		return dob
	}

	return dob[0:4] + "-" + dob[4:6] + "-" + dob[6:8]
}
