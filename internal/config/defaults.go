package config

// DefaultConfigYAML is written by `interpret init`. Values mirror the
// loader defaults.
const DefaultConfigYAML = `# interpret configuration
#
# Every value can be overridden with an INTERPRET_* environment variable
# (for example INTERPRET_LLM_MODEL) or a command-line flag.

log:
  level: info     # debug, info, warn, error
  format: auto    # auto, text, json

llm:
  provider: anthropic   # anthropic, openai, openrouter, lmstudio, ollama
  model: claude-sonnet-4-20250514
  # base_url: http://localhost:11434
  # api_key is read from ANTHROPIC_API_KEY, OPENAI_API_KEY or
  # OPENROUTER_API_KEY when not set here.
  max_tokens: 4096
  timeout: 2m
  max_retries: 2

interpret:
  kind: fa              # fa (factor analysis), gm (gaussian mixture)
  word_limit: 150       # 20 to 500
  cutoff: 0.3           # loadings below this are treated as weak
  n_emergency: 2        # top loadings used when a factor has none above cutoff
  sort_loadings: true
  hide_low_loadings: false
  output_format: cli    # cli, markdown
  heading_level: 1
  verbosity: 0          # 0 full, 1 progress only, 2 silent
  echo: none            # none, output, all

server:
  host: 127.0.0.1
  port: 8080
  read_timeout: 30s
  write_timeout: 5m
  cors_origins: []
  max_body_bytes: 4194304
`
