// Package processor filters a GDP dataset by region and reduces one year of
// it to a statistic.
//
// The stages are Filter (exact continent match), ExtractYearValues (parse the
// year column, skipping missing cells) and ComputeStatistic (sum or
// average). Process chains them. Describe adds a descriptive summary of the
// same values for reports.
//
// Missing values are skipped here, never counted as zero: an average over
// {10, 20, missing} is 15.
package processor
