// Package config loads the command line tool's settings from
// spinplay.cfg.json with viper.
//
//	if err := config.LoadOptional("."); err != nil {
//	    return err
//	}
//	addr := config.GetString(config.KeyServerAddr)
//
// Every key has a default, so the file may set only what differs. Values
// can also come from SPINPLAY_* environment variables, for example
// SPINPLAY_SERVER_ADDR for server.addr.
package config
