// Package config provides configuration parsing for the K-MATO client.
//
// The configuration is stored in kmato.json. A missing file is fine: every
// field has a default, and KMATO_* environment variables override both the
// defaults and the file.
//
// # Configuration File Structure
//
//	{
//	  "apiUrl": "http://localhost:8080/api",
//	  "wsUrl": "ws://localhost:8080/ws/orders",
//	  "storage": {
//	    "driver": "file",
//	    "path": "~/.config/kmato/state.json"
//	  },
//	  "fees": {
//	    "deliveryFee": 40,
//	    "platformFee": 5,
//	    "taxRate": 0.05
//	  },
//	  "requestTimeout": "15s"
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("API:", cfg.APIURL)
package config
