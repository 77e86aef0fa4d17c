package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/brandsift/internal/llm"
	"github.com/cognicore/brandsift/internal/tsv"
)

type agentConfig struct {
	LLM struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"llm"`
}

func main() {
	var (
		configPath   = flag.String("config", "", "Path to agent config YAML (required)")
		targetPath   = flag.String("f", "", "Target listing file (required)")
		makerBrand   = flag.String("cbrand", "", "Company brand name (required)")
		productBrand = flag.String("pbrand", "", "Product brand name (required)")
		memo         = flag.String("m", "", "Operator hints folded into brand research")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}
	if *targetPath == "" {
		log.Fatal("-f required")
	}
	if *makerBrand == "" || *productBrand == "" {
		log.Fatal("-cbrand and -pbrand required")
	}

	conf, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	client := &llm.Client{
		BaseURL: conf.LLM.BaseURL,
		Model:   conf.LLM.Model,
		APIKey:  conf.LLM.APIKey,
	}

	ctx := context.Background()

	// research the brand once, then let the model review its own answer
	brandInfo, err := client.ResearchBrand(ctx, *makerBrand, *productBrand, *memo)
	if err != nil {
		log.Fatalf("brand research: %v", err)
	}
	fmt.Fprintln(os.Stderr, brandInfo)

	reviewed, err := client.ReviewBrand(ctx, *makerBrand, *productBrand, brandInfo)
	if err != nil {
		log.Fatalf("brand review: %v", err)
	}
	if reviewed != brandInfo {
		brandInfo = reviewed
		fmt.Fprintln(os.Stderr, brandInfo)
	}

	f, err := tsv.Open(*targetPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	err = tsv.ForEachRecord(f, func(fields []string) error {
		item := llm.ItemPrompt(fields)
		if item == "" {
			return nil
		}
		verdict, err := client.ClassifyItem(ctx, item, brandInfo, *makerBrand, *productBrand)
		if err != nil {
			return fmt.Errorf("classify row %s: %w", fields[0], err)
		}
		line := verdict + "\t" + strings.Join(fields, "\t")
		fmt.Println(line)
		fmt.Fprintln(os.Stderr, line)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string) (agentConfig, error) {
	var cfg agentConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
