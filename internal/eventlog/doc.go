// Package eventlog holds the in-memory event log used by every other
// procmine package, together with its CSV and XES codecs.
//
// A Log is a collection of cases. Each case is an ordered sequence of
// timestamped activity occurrences (events). Cases keep the order in which
// they first appeared in the input so that output is reproducible.
//
// # Input
//
// CSV input is described by CSVOptions: the delimiter, the names of the
// case, activity and timestamp columns, and a timestamp format written in
// strftime notation (the notation used by the coursework data sets):
//
//	opts := eventlog.CSVOptions{
//	    Delimiter:       ';',
//	    CaseColumn:      "Case ID",
//	    ActivityColumn:  "Activity",
//	    TimestampColumn: "Timestamp",
//	    TimestampFormat: "%d-%m-%Y:%H.%M",
//	}
//	log, err := eventlog.ReadCSV(f, opts)
//
// XES input and output follow the XES 1.0 standard using the concept and
// time extensions. Attributes outside those extensions are kept as strings.
//
// # Normalisation
//
// Case IDs and activity names are NFC-normalised on input so that visually
// identical names coming from different sources compare equal.
package eventlog
