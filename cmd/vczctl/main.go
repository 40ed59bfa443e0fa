package main

import (
	"context"
	"fmt"
	"os"

	"github.com/duit-aim/vcz-estimator/pkg/client"
	"github.com/duit-aim/vcz-estimator/pkg/common/config"
	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	token     string

	// Covariates
	age                 float64
	weight              float64
	albumin             float64
	crp                 float64
	totalBilirubin      float64
	sex                 string
	metabolizerStatus   string
	dailyDoseMg         float64
	daysSinceInitiation float64
)

var rootCmd = &cobra.Command{
	Use:   "vczctl",
	Short: "Client for the voriconazole plasma concentration estimator",
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate voriconazole exposure for one patient",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL, config.Load().ClientRequestTimeout)
		if token != "" {
			c.WithToken(token)
		}

		req := models.EstimationRequest{
			Age:                 &age,
			Weight:              &weight,
			Albumin:             &albumin,
			CRP:                 &crp,
			TotalBilirubin:      &totalBilirubin,
			Sex:                 sex,
			MetabolizerStatus:   metabolizerStatus,
			DailyDoseMg:         &dailyDoseMg,
			DaysSinceInitiation: &daysSinceInitiation,
		}

		resp, err := c.Estimate(context.Background(), req)
		if err != nil {
			return err
		}

		fmt.Printf("Estimated CL/F:              %.3f L/h\n", resp.PredictedClearance)
		fmt.Printf("Theoretical concentration:   %.3f mg/L\n", resp.TheoreticalConcentration)
		fmt.Printf("Estimated concentration:     %.3f mg/L\n", resp.CalibratedConcentration)
		fmt.Println()

		if resp.SteadyStateAdvisory == models.BeforeSteadyState {
			fmt.Println("Warning: sample collected before steady-state conditions are typically achieved; interpret with caution.")
		} else {
			fmt.Println("Sampling time is consistent with near steady-state conditions used during model calibration.")
		}
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model artifacts loaded by the estimator",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL, config.Load().ClientRequestTimeout)
		if token != "" {
			c.WithToken(token)
		}

		descriptors, err := c.ListModels(context.Background())
		if err != nil {
			return err
		}
		for _, d := range descriptors {
			fmt.Printf("%s %s (%s), features: %v\n", d.Name, d.Version, d.Algorithm, d.FeatureNames)
		}
		return nil
	},
}

func init() {
	cfg := config.Load()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", cfg.EstimatorBaseURL, "Estimator service base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token")

	estimateCmd.Flags().Float64Var(&age, "age", 50, "Age (years)")
	estimateCmd.Flags().Float64Var(&weight, "weight", 60, "Weight (kg)")
	estimateCmd.Flags().Float64Var(&albumin, "albumin", 32, "Albumin (g/L)")
	estimateCmd.Flags().Float64Var(&crp, "crp", 30, "C-reactive protein (mg/L)")
	estimateCmd.Flags().Float64Var(&totalBilirubin, "tbil", 12, "Total bilirubin (µmol/L)")
	estimateCmd.Flags().StringVar(&sex, "sex", "Male", "Sex (Male or Female)")
	estimateCmd.Flags().StringVar(&metabolizerStatus, "metabolizer", "NM", "CYP2C19 metabolizer status (NM, IM, PM)")
	estimateCmd.Flags().Float64Var(&dailyDoseMg, "dose", 400, "Daily voriconazole dose (mg/day)")
	estimateCmd.Flags().Float64Var(&daysSinceInitiation, "days", 7, "Time since initiation of therapy (days)")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
