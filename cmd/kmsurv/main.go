// Command kmsurv fits Kaplan-Meier estimates of survival and
// censoring distributions from CSV files.
package main

func main() {
	Execute()
}
