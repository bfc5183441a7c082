package fpa

// The IFPUG complexity rule matrices. Row index is the bucketed first count
// (record types for data kinds, file types referenced for transactional
// kinds), column index is the bucketed data element count.
var (
	dataMatrix = [3][3]Tier{
		{Low, Low, Average},
		{Low, Average, High},
		{Average, High, High},
	}
	inputMatrix = [3][3]Tier{
		{Low, Low, Average},
		{Low, Average, High},
		{Average, High, High},
	}
	outputMatrix = [3][3]Tier{
		{Low, Low, Average},
		{Low, Average, High},
		{Average, High, High},
	}
)

// Bucket thresholds per IFPUG counting practice. Each function returns the
// matrix row or column index for a raw count.

func dataRecordBucket(recordTypes int) int {
	switch {
	case recordTypes <= 1:
		return 0
	case recordTypes <= 5:
		return 1
	default:
		return 2
	}
}

func dataElementBucket(dataElements int) int {
	switch {
	case dataElements < 20:
		return 0
	case dataElements <= 50:
		return 1
	default:
		return 2
	}
}

func inputFileBucket(fileTypes int) int {
	switch {
	case fileTypes < 2:
		return 0
	case fileTypes == 2:
		return 1
	default:
		return 2
	}
}

func inputElementBucket(dataElements int) int {
	switch {
	case dataElements < 5:
		return 0
	case dataElements <= 15:
		return 1
	default:
		return 2
	}
}

func outputFileBucket(fileTypes int) int {
	switch {
	case fileTypes < 2:
		return 0
	case fileTypes <= 3:
		return 1
	default:
		return 2
	}
}

func outputElementBucket(dataElements int) int {
	switch {
	case dataElements < 6:
		return 0
	case dataElements <= 19:
		return 1
	default:
		return 2
	}
}

// Classify maps a component's two structural counts to a complexity tier and
// its function point weight. For data kinds count1 is the record type count;
// for transactional kinds it is the file types referenced count. count2 is
// always the data element count.
//
// Classification is a pure function of (kind, count1, count2): the same
// inputs always produce the same tier and points.
func Classify(kind Kind, count1, count2 int) (Tier, int, error) {
	if !kind.Valid() {
		return "", 0, &InputError{Kind: kind, Reason: "unknown component kind"}
	}
	if count2 < 1 {
		return "", 0, &InputError{Kind: kind, Reason: "data elements must be at least 1"}
	}

	var tier Tier
	switch kind {
	case InternalFile, ExternalFile:
		if count1 < 1 {
			return "", 0, &InputError{Kind: kind, Reason: "record types must be at least 1"}
		}
		tier = dataMatrix[dataRecordBucket(count1)][dataElementBucket(count2)]
	case ExternalInput:
		if count1 < 0 {
			return "", 0, &InputError{Kind: kind, Reason: "file types referenced must not be negative"}
		}
		tier = inputMatrix[inputFileBucket(count1)][inputElementBucket(count2)]
	case ExternalOutput, ExternalQuery:
		if count1 < 0 {
			return "", 0, &InputError{Kind: kind, Reason: "file types referenced must not be negative"}
		}
		tier = outputMatrix[outputFileBucket(count1)][outputElementBucket(count2)]
	}

	return tier, Weight(kind, tier), nil
}

// ClassifyComponent derives the tier and points for a single component.
//
// An EQ component with paired Input/Output sides is classified twice using
// the EO/EQ matrix; the effective tier is the higher of the two sides and the
// points are the EQ weight at that tier. When the tiers are identical either
// side yields the same points, so the tie needs no resolution.
func ClassifyComponent(c Component) (Classified, error) {
	if c.Kind == ExternalQuery && c.Input != nil && c.Output != nil {
		inTier, _, err := Classify(ExternalQuery, c.Input.FileTypesReferenced, c.Input.DataElements)
		if err != nil {
			return Classified{}, err
		}
		outTier, _, err := Classify(ExternalQuery, c.Output.FileTypesReferenced, c.Output.DataElements)
		if err != nil {
			return Classified{}, err
		}
		tier := maxTier(inTier, outTier)
		return Classified{Component: c, Tier: tier, Points: Weight(ExternalQuery, tier)}, nil
	}

	count1 := c.FileTypesReferenced
	if c.Kind.IsData() {
		count1 = c.RecordTypes
	}
	tier, points, err := Classify(c.Kind, count1, c.DataElements)
	if err != nil {
		return Classified{}, err
	}
	return Classified{Component: c, Tier: tier, Points: points}, nil
}

// ClassifyAll classifies every component in order. The first invalid
// component aborts the whole classification.
func ClassifyAll(components []Component) ([]Classified, error) {
	classified := make([]Classified, 0, len(components))
	for _, c := range components {
		cc, err := ClassifyComponent(c)
		if err != nil {
			return nil, err
		}
		classified = append(classified, cc)
	}
	return classified, nil
}
