package carriers

// CleanPhoneNumber normalizes phone numbers to the 10-digit national
// format the carrier API expects. Handles common input shapes:
// - 10 digits: 5321234567
// - With leading 0: 05321234567
// - With country code: 905321234567, +905321234567
func CleanPhoneNumber(phone string) string {
	digits := ""
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			digits += string(c)
		}
	}

	switch {
	case len(digits) == 10:
		return digits
	case len(digits) == 11 && digits[0] == '0':
		return digits[1:]
	case len(digits) == 12 && digits[:2] == "90":
		return digits[2:]
	case len(digits) > 10:
		return digits[len(digits)-10:]
	default:
		// Less than 10 digits - return empty to indicate invalid
		return ""
	}
}
