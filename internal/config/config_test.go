package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	var (
		tempDir    string
		configFile string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test")
		Expect(err).NotTo(HaveOccurred())
		configFile = filepath.Join(tempDir, "config.yaml")
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("when config file exists with valid content", func() {
			BeforeEach(func() {
				validConfig := `
server:
  port: "8080"
  metrics_port: "9090"

serp:
  provider: "dataforseo"
  dataforseo_login: "brajen"
  dataforseo_password: "secret"
  timeout: "30s"
  max_depth: 10

llm:
  provider: "anthropic"
  model: "claude-3-haiku-20240307"
  timeout: "20s"
  temperature: 0.3
  max_tokens: 500

scrape:
  workers: 6
  timeout: "8s"
  max_page_bytes: 30000
  max_total_bytes: 200000

entity_seo:
  enabled: true

logging:
  level: "info"
  format: "json"
`
				err := os.WriteFile(configFile, []byte(validConfig), 0644)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should load configuration successfully", func() {
				config, err := Load(configFile)
				Expect(err).NotTo(HaveOccurred())
				Expect(config).NotTo(BeNil())

				Expect(config.Server.Port).To(Equal("8080"))
				Expect(config.Server.MetricsPort).To(Equal("9090"))

				Expect(config.SERP.Provider).To(Equal("dataforseo"))
				Expect(config.SERP.DataForSEOLogin).To(Equal("brajen"))
				Expect(config.SERP.DataForSEOPassword).To(Equal("secret"))
				Expect(config.SERP.Timeout).To(Equal(30 * time.Second))
				Expect(config.SERP.MaxDepth).To(Equal(10))

				Expect(config.LLM.Provider).To(Equal("anthropic"))
				Expect(config.LLM.Model).To(Equal("claude-3-haiku-20240307"))
				Expect(config.LLM.Timeout).To(Equal(20 * time.Second))
				Expect(config.LLM.Temperature).To(Equal(float32(0.3)))
				Expect(config.LLM.MaxTokens).To(Equal(500))

				Expect(config.Scrape.Workers).To(Equal(6))
				Expect(config.Scrape.Timeout).To(Equal(8 * time.Second))
				Expect(config.Scrape.MaxPageBytes).To(Equal(30000))
				Expect(config.Scrape.MaxTotalBytes).To(Equal(200000))

				Expect(config.EntitySEO.Enabled).To(BeTrue())

				Expect(config.Logging.Level).To(Equal("info"))
				Expect(config.Logging.Format).To(Equal("json"))
			})
		})

		Context("when config file has minimal content", func() {
			BeforeEach(func() {
				minimalConfig := `
server:
  port: "3000"

serp:
  provider: "serpapi"
`
				err := os.WriteFile(configFile, []byte(minimalConfig), 0644)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should load with defaults for missing values", func() {
				config, err := Load(configFile)
				Expect(err).NotTo(HaveOccurred())

				Expect(config.Server.Port).To(Equal("3000"))
				Expect(config.SERP.Provider).To(Equal("serpapi"))

				Expect(config.SERP.MaxDepth).To(Equal(8))
				Expect(config.Scrape.Workers).To(Equal(6))
				Expect(config.LLM.Provider).To(Equal("anthropic"))
				Expect(config.LLM.Model).To(Equal("claude-3-haiku-20240307"))
			})
		})

		Context("when config file does not exist", func() {
			It("should return an error", func() {
				_, err := Load("/nonexistent/config.yaml")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to read config file"))
			})
		})

		Context("when config file has invalid YAML", func() {
			BeforeEach(func() {
				invalidConfig := `
server:
  port: "8080"
  invalid_yaml: [
serp:
  provider: "serpapi"
`
				err := os.WriteFile(configFile, []byte(invalidConfig), 0644)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an error", func() {
				_, err := Load(configFile)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to parse config file"))
			})
		})

		Context("when config has invalid duration formats", func() {
			BeforeEach(func() {
				invalidDurationConfig := `
server:
  port: "8080"

serp:
  provider: "serpapi"
  timeout: "invalid-duration"

scrape:
  timeout: "not-a-duration"
`
				err := os.WriteFile(configFile, []byte(invalidDurationConfig), 0644)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an error", func() {
				_, err := Load(configFile)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to parse config file"))
			})
		})
	})

	Describe("validate", func() {
		var config *Config

		BeforeEach(func() {
			config = &Config{
				Server: ServerConfig{
					Port:        "8080",
					MetricsPort: "9090",
				},
				SERP: SERPConfig{
					Provider: "dataforseo",
					Timeout:  30 * time.Second,
					MaxDepth: 8,
				},
				LLM: LLMConfig{
					Provider:    "anthropic",
					Model:       "claude-3-haiku-20240307",
					Timeout:     20 * time.Second,
					Temperature: 0.3,
					MaxTokens:   500,
				},
				Scrape: ScrapeConfig{
					Workers: 6,
					Timeout: 8 * time.Second,
				},
				Logging: LoggingConfig{
					Level:  "info",
					Format: "json",
				},
			}
		})

		Context("when config is valid", func() {
			It("should pass validation", func() {
				err := validate(config)
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("when SERP provider is invalid", func() {
			BeforeEach(func() {
				config.SERP.Provider = "bing"
			})

			It("should return validation error", func() {
				err := validate(config)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("unsupported SERP provider"))
			})
		})

		Context("when SERP max depth is missing", func() {
			BeforeEach(func() {
				config.SERP.MaxDepth = 0
			})

			It("should set the default depth", func() {
				err := validate(config)
				Expect(err).NotTo(HaveOccurred())
				Expect(config.SERP.MaxDepth).To(Equal(8))
			})
		})

		Context("when SERP max depth exceeds the hard cap", func() {
			BeforeEach(func() {
				config.SERP.MaxDepth = 50
			})

			It("should clamp to 20", func() {
				err := validate(config)
				Expect(err).NotTo(HaveOccurred())
				Expect(config.SERP.MaxDepth).To(Equal(20))
			})
		})

		Context("when LLM provider is invalid", func() {
			BeforeEach(func() {
				config.LLM.Provider = "localai"
			})

			It("should return validation error", func() {
				err := validate(config)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("unsupported LLM provider"))
			})
		})

		Context("when LLM model is missing", func() {
			BeforeEach(func() {
				config.LLM.Model = ""
			})

			It("should return validation error", func() {
				err := validate(config)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("LLM model is required for anthropic provider"))
			})
		})

		Context("when LLM temperature is out of range", func() {
			BeforeEach(func() {
				config.LLM.Temperature = 1.5
			})

			It("should return validation error", func() {
				err := validate(config)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("LLM temperature must be between 0.0 and 1.0"))
			})
		})

		Context("when LLM max tokens is invalid", func() {
			BeforeEach(func() {
				config.LLM.MaxTokens = 0
			})

			It("should return validation error", func() {
				err := validate(config)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("LLM max tokens must be greater than 0"))
			})
		})

		Context("when scrape workers is zero", func() {
			BeforeEach(func() {
				config.Scrape.Workers = 0
			})

			It("should return validation error", func() {
				err := validate(config)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("scrape workers must be greater than 0"))
			})
		})

		Context("when scrape workers is negative", func() {
			BeforeEach(func() {
				config.Scrape.Workers = -1
			})

			It("should return validation error", func() {
				err := validate(config)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("scrape workers must be greater than 0"))
			})
		})

		Context("when SERP timeout is negative", func() {
			BeforeEach(func() {
				config.SERP.Timeout = -1 * time.Second
			})

			It("should pass validation", func() {
				// validate does not constrain timeouts, only depth/workers/tokens
				err := validate(config)
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("when scrape timeout is negative", func() {
			BeforeEach(func() {
				config.Scrape.Timeout = -1 * time.Second
			})

			It("should pass validation", func() {
				err := validate(config)
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("loadFromEnv", func() {
		var config *Config

		BeforeEach(func() {
			config = &Config{}
			os.Clearenv()
		})

		Context("when environment variables are set", func() {
			BeforeEach(func() {
				os.Setenv("SERP_PROVIDER", "dataforseo")
				os.Setenv("SERPAPI_KEY", "test-serpapi-key")
				os.Setenv("DATAFORSEO_LOGIN", "test-login")
				os.Setenv("DATAFORSEO_PASSWORD", "test-password")
				os.Setenv("ANTHROPIC_API_KEY", "test-anthropic-key")
				os.Setenv("OPENAI_API_KEY", "test-openai-key")
				os.Setenv("ENTITY_SEO_ENABLED", "true")
				os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/creds/sa.json")
				os.Setenv("PORT", "3000")
				os.Setenv("METRICS_PORT", "9999")
				os.Setenv("LOG_LEVEL", "debug")
			})

			AfterEach(func() {
				os.Clearenv()
			})

			It("should load values from environment", func() {
				err := loadFromEnv(config)
				Expect(err).NotTo(HaveOccurred())

				Expect(config.SERP.Provider).To(Equal("dataforseo"))
				Expect(config.SERP.SerpAPIKey).To(Equal("test-serpapi-key"))
				Expect(config.SERP.DataForSEOLogin).To(Equal("test-login"))
				Expect(config.SERP.DataForSEOPassword).To(Equal("test-password"))
				Expect(config.LLM.AnthropicAPIKey).To(Equal("test-anthropic-key"))
				Expect(config.LLM.OpenAIAPIKey).To(Equal("test-openai-key"))
				Expect(config.EntitySEO.Enabled).To(BeTrue())
				Expect(config.Docstore.GoogleApplicationCredentials).To(Equal("/creds/sa.json"))
				Expect(config.Server.Port).To(Equal("3000"))
				Expect(config.Server.MetricsPort).To(Equal("9999"))
				Expect(config.Logging.Level).To(Equal("debug"))
			})
		})

		Context("when ENTITY_SEO_ENABLED is not a valid boolean", func() {
			BeforeEach(func() {
				os.Setenv("ENTITY_SEO_ENABLED", "maybe")
			})

			AfterEach(func() {
				os.Clearenv()
			})

			It("should return an error", func() {
				err := loadFromEnv(config)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("invalid ENTITY_SEO_ENABLED value"))
			})
		})

		Context("when no environment variables are set", func() {
			It("should not modify config", func() {
				originalConfig := *config
				err := loadFromEnv(config)
				Expect(err).NotTo(HaveOccurred())
				Expect(*config).To(Equal(originalConfig))
			})
		})
	})
})
