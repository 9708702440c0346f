package parse

import (
	"strconv"
	"strings"
)

// Parse turns normalized text lines into a structured prescription record.
//
// The pass order is fixed: marker repair first, then per-line medicine
// extraction with header/instruction rejection and a dosage-vocabulary gate,
// then a relaxed name-only fallback if strict extraction found nothing, and
// finally the demographic field scans over the repaired lines.
func Parse(lines []string) *PrescriptionRecord {
	repaired := RepairLines(lines)
	rec := &PrescriptionRecord{Medicines: []Medicine{}}

	seen := make(map[string]bool)
	for _, line := range repaired {
		line = strings.TrimSpace(line)
		if line == "" || isHeaderLine(line) || isInstructionLine(line) {
			continue
		}
		if !hasDosageVocabulary(line) {
			continue
		}
		med, ok := extractMedicine(line)
		if !ok {
			continue
		}
		key := strings.ToLower(med.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		rec.Medicines = append(rec.Medicines, med)
	}

	// Relaxed pass: when nothing matched strictly, accept the first line
	// that yields a bare name. Dosage, frequency, and time stay empty.
	if len(rec.Medicines) == 0 {
		for _, line := range repaired {
			if name, ok := fallbackName(strings.TrimSpace(line)); ok {
				rec.Medicines = append(rec.Medicines, Medicine{Name: name})
				break
			}
		}
	}

	scanDemographics(rec, repaired)
	return rec
}

// scanDemographics fills the patient fields. Each field takes the first line
// on which any of its strategies matches; later lines never overwrite it.
func scanDemographics(rec *PrescriptionRecord, lines []string) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rec.Age == "" {
			if age, ok := extractAge(line); ok {
				rec.Age = strconv.Itoa(age)
				rec.AgeGroup = AgeGroupFor(age)
			}
		}
		if rec.Weight == "" {
			if w, ok := extractWeight(line); ok {
				rec.Weight = w
			}
		}
		if rec.Height == "" {
			if h, ok := extractHeight(line); ok {
				rec.Height = h
			}
		}
		if rec.Gender == "" {
			if g, ok := extractGender(line); ok {
				rec.Gender = g
			}
		}
		if rec.Purpose == "" {
			if p, ok := extractPurpose(line); ok {
				rec.Purpose = p
			}
		}
		if rec.Allergies == "" {
			if a, ok := extractAllergies(line); ok {
				rec.Allergies = a
			}
		}
	}
}
