// Package output provides utilities for formatting and displaying evaluation reports.
package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/fraud-metrics/internal/evaluation"
	"github.com/iwvelando/fraud-metrics/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report *evaluation.Report) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "--- Evaluation of %d records at threshold %.2f ---\n", report.Records, report.DecisionThreshold)
	matrix := report.Metrics.Matrix
	p.Fprintf(w, "Classified pairs: %d (TP=%d FP=%d TN=%d FN=%d)\n",
		matrix.Total(), matrix.TP, matrix.FP, matrix.TN, matrix.FN)
	fmt.Fprintf(w, "Precision: %.4f | Recall: %.4f | Accuracy: %.4f | F1: %.4f\n",
		report.Metrics.Precision, report.Metrics.Recall, report.Metrics.Accuracy, report.Metrics.F1)

	if mathutil.IsZero(report.TotalCost) {
		fmt.Fprintf(w, "No misclassification cost incurred\n")
	} else {
		p.Fprintf(w, "Cost: $%.2f false alarms + $%.2f missed fraud = $%.2f total\n",
			report.Cost.FalsePositive, report.Cost.FalseNegative, report.TotalCost)
	}

	if len(report.Sweep) > 0 {
		fmt.Fprintf(w, "\nThreshold | Total Cost    | TP    | FP    | TN    | FN\n")
		fmt.Fprintf(w, "_________ | _____________ | _____ | _____ | _____ | _____\n")
		for _, result := range report.Sweep {
			p.Fprintf(w, "%.2f      | $%.2f | %d | %d | %d | %d\n",
				result.Threshold, result.TotalCost,
				result.Matrix.TP, result.Matrix.FP, result.Matrix.TN, result.Matrix.FN)
		}
	}
	if report.Best != nil {
		p.Fprintf(w, "Best threshold: %.2f with total cost $%.2f\n", report.Best.Threshold, report.Best.TotalCost)
	}

	if len(report.RiskBands) > 0 {
		fmt.Fprintf(w, "\nRisk Band   | Transactions | Fraud | Fraud %%\n")
		fmt.Fprintf(w, "_________   | ____________ | _____ | _______\n")
		for _, band := range report.RiskBands {
			p.Fprintf(w, "%-11s | %d | %d | %.2f%%\n",
				band.Band, band.Transactions, band.ActualFraud, band.FraudPercentage)
		}
	}

	if len(report.AmountBuckets) > 0 {
		fmt.Fprintf(w, "\nAmount Range    | Transactions | Fraud | Fraud %%\n")
		fmt.Fprintf(w, "____________    | ____________ | _____ | _______\n")
		for _, bucket := range report.AmountBuckets {
			p.Fprintf(w, "%-15s | %d | %d | %.2f%%\n",
				bucket.Label, bucket.Transactions, bucket.ActualFraud, bucket.FraudPercentage)
		}
	}

	if len(report.HourlyPatterns) > 0 {
		fmt.Fprintf(w, "\nHour | Transactions | Fraud | Fraud Rate\n")
		fmt.Fprintf(w, "____ | ____________ | _____ | __________\n")
		for _, stat := range report.HourlyPatterns {
			p.Fprintf(w, "%02d   | %d | %d | %.6f\n",
				stat.Hour, stat.Transactions, stat.ActualFraud, stat.FraudRate)
		}
	}
}

// CsvFormat writes the report as metric,value rows in the same shape as the
// pipeline's analysis summary export.
func CsvFormat(w io.Writer, report *evaluation.Report) {
	fmt.Fprintf(w, "\"metric\",\"value\"\n")
	fmt.Fprintf(w, "\"records\",\"%d\"\n", report.Records)
	fmt.Fprintf(w, "\"decision_threshold\",\"%.2f\"\n", report.DecisionThreshold)

	matrix := report.Metrics.Matrix
	fmt.Fprintf(w, "\"true_positives\",\"%d\"\n", matrix.TP)
	fmt.Fprintf(w, "\"false_positives\",\"%d\"\n", matrix.FP)
	fmt.Fprintf(w, "\"true_negatives\",\"%d\"\n", matrix.TN)
	fmt.Fprintf(w, "\"false_negatives\",\"%d\"\n", matrix.FN)
	fmt.Fprintf(w, "\"precision\",\"%.6f\"\n", report.Metrics.Precision)
	fmt.Fprintf(w, "\"recall\",\"%.6f\"\n", report.Metrics.Recall)
	fmt.Fprintf(w, "\"accuracy\",\"%.6f\"\n", report.Metrics.Accuracy)
	fmt.Fprintf(w, "\"f1\",\"%.6f\"\n", report.Metrics.F1)

	fmt.Fprintf(w, "\"false_positive_cost\",\"%.2f\"\n", mathutil.Round(report.Cost.FalsePositive))
	fmt.Fprintf(w, "\"false_negative_cost\",\"%.2f\"\n", mathutil.Round(report.Cost.FalseNegative))
	fmt.Fprintf(w, "\"total_cost\",\"%.2f\"\n", mathutil.Round(report.TotalCost))

	if report.Best != nil {
		fmt.Fprintf(w, "\"best_threshold\",\"%.2f\"\n", report.Best.Threshold)
		fmt.Fprintf(w, "\"best_threshold_cost\",\"%.2f\"\n", mathutil.Round(report.Best.TotalCost))
	}

	for _, band := range report.RiskBands {
		fmt.Fprintf(w, "\"risk_%s_transactions\",\"%d\"\n", snake(string(band.Band)), band.Transactions)
		fmt.Fprintf(w, "\"risk_%s_fraud\",\"%d\"\n", snake(string(band.Band)), band.ActualFraud)
	}
}

func snake(label string) string {
	out := make([]rune, 0, len(label))
	for _, r := range label {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
