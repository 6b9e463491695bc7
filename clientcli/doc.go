// Package clientcli provides a client library for reading from Sheetbridge
// servers.
//
// It fetches endpoint envelopes, pings the liveness route, and pages through
// the fetch journal. Profiles in ~/.sheetbridge/config.yaml hold the URLs of
// the servers a user talks to.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:3000"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Get(ctx, "questions") // same as "/api/questions"
//	if errors.Is(err, clientcli.ErrFetchFailed) {
//		// the server could not read the sheet
//	}
//
// # Profile Configuration
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatGet(os.Stdout, result)
package clientcli
