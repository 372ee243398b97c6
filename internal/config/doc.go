// Package config loads fetchview configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults (New)
//  2. a config file in the working directory: fetchview.json, fetchview.yaml
//     or fetchview.yml, the first one found
//  3. a .env file next to it (never overriding the process environment)
//  4. environment variables
//  5. command-line flags, applied by the caller
//
// # Configuration File Structure
//
//	github:
//	  baseURL: https://api.github.com
//	nasa:
//	  baseURL: https://api.nasa.gov
//	  apiKey: DEMO_KEY
//	http:
//	  timeout: 10s
//	  userAgent: fetchview
//	server:
//	  address: localhost:8080
//	  shutdownTimeout: 10s
//	  renderTimeout: 5s
//	timer:
//	  interval: 1s
//	  max: 10
//	log:
//	  level: info
//
// # Environment
//
//	NASA_API_KEY            NASA API key (REACT_APP_NASA_API_KEY is also read)
//	FETCHVIEW_GITHUB_URL    GitHub API base URL
//	FETCHVIEW_NASA_URL      NASA API base URL
//	FETCHVIEW_HTTP_TIMEOUT  outbound request timeout
//	FETCHVIEW_ADDR          demo host listen address
//	FETCHVIEW_LOG_LEVEL     debug, info, warn or error
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
