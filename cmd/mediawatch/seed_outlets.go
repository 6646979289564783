package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/mediawatch/internal/config"
	"github.com/jonathan/mediawatch/internal/db"
)

var seedOutletsCmd = &cobra.Command{
	Use:   "seed-outlets",
	Short: "Seed the UK media outlet list",
	Long:  `Load the built-in list of UK media outlets with their complaint contacts and regulators. Existing outlets are updated in place, so re-running is safe.`,
	RunE:  runSeedOutlets,
}

func init() {
	rootCmd.AddCommand(seedOutletsCmd)
}

var seedOutlets = []db.OutletCreateInput{
	{Name: "BBC News", MediaType: db.MediaTypeTV, ContactEmail: "complaints@bbc.co.uk", ComplaintsEmail: "complaints@bbc.co.uk", Website: "https://www.bbc.co.uk/news", Regulator: "Ofcom", Description: "BBC News television broadcasts"},
	{Name: "BBC Radio 4", MediaType: db.MediaTypeRadio, ContactEmail: "radio4.complaints@bbc.co.uk", ComplaintsEmail: "complaints@bbc.co.uk", Website: "https://www.bbc.co.uk/radio4", Regulator: "Ofcom", Description: "BBC Radio 4"},
	{Name: "BBC Question Time", MediaType: db.MediaTypeTV, ContactEmail: "bbcquestiontime@bbc.co.uk", ComplaintsEmail: "complaints@bbc.co.uk", Website: "https://www.bbc.co.uk/programmes/b006t1q9", Regulator: "Ofcom", Description: "BBC Question Time political discussion programme"},
	{Name: "BBC Politics Live", MediaType: db.MediaTypeTV, ContactEmail: "bbcnews@bbc.co.uk", ComplaintsEmail: "complaints@bbc.co.uk", Website: "https://www.bbc.co.uk", Regulator: "Ofcom", Description: "BBC Politics Live daily politics show"},
	{Name: "ITV News", MediaType: db.MediaTypeTV, ContactEmail: "duty.office@itv.com", ComplaintsEmail: "viewerservices@itv.com", Website: "https://www.itv.com/news", Regulator: "Ofcom", Description: "ITV News broadcasts"},
	{Name: "Good Morning Britain", MediaType: db.MediaTypeTV, ContactEmail: "gmb@itv.com", ComplaintsEmail: "viewerservices@itv.com", Website: "https://www.itv.com/gmb", Regulator: "Ofcom", Description: "ITV Good Morning Britain breakfast show"},
	{Name: "Sky News", MediaType: db.MediaTypeTV, ContactEmail: "news@sky.uk", ComplaintsEmail: "info@sky.uk", Website: "https://news.sky.com", Regulator: "Ofcom", Description: "Sky News 24-hour news channel"},
	{Name: "Channel 4 News", MediaType: db.MediaTypeTV, ContactEmail: "c4news@channel4.co.uk", ComplaintsEmail: "viewerequiries@channel4.co.uk", Website: "https://www.channel4.com/news", Regulator: "Ofcom", Description: "Channel 4 News"},
	{Name: "The Guardian", MediaType: db.MediaTypePrint, ContactEmail: "reader@theguardian.com", ComplaintsEmail: "userhelp@theguardian.com", Website: "https://www.theguardian.com", Regulator: "IPSO", Description: "The Guardian newspaper and online"},
	{Name: "The Times", MediaType: db.MediaTypePrint, ContactEmail: "editor@thetimes.co.uk", ComplaintsEmail: "complaints@thetimes.co.uk", Website: "https://www.thetimes.co.uk", Regulator: "IPSO", Description: "The Times newspaper"},
	{Name: "The Telegraph", MediaType: db.MediaTypePrint, ContactEmail: "dt.letters@telegraph.co.uk", ComplaintsEmail: "complaints@telegraph.co.uk", Website: "https://www.telegraph.co.uk", Regulator: "IPSO", Description: "The Telegraph newspaper"},
	{Name: "Daily Mail", MediaType: db.MediaTypePrint, ContactEmail: "news@dailymail.co.uk", ComplaintsEmail: "editorial.complaints@dailymail.co.uk", Website: "https://www.dailymail.co.uk", Regulator: "IPSO", Description: "Daily Mail newspaper and MailOnline"},
	{Name: "The Sun", MediaType: db.MediaTypePrint, ContactEmail: "exclusive@the-sun.co.uk", ComplaintsEmail: "complaints@the-sun.co.uk", Website: "https://www.thesun.co.uk", Regulator: "IPSO", Description: "The Sun newspaper"},
	{Name: "Financial Times", MediaType: db.MediaTypePrint, ContactEmail: "letters.editor@ft.com", ComplaintsEmail: "reader.complaints@ft.com", Website: "https://www.ft.com", Regulator: "IPSO", Description: "Financial Times"},
	{Name: "The Independent", MediaType: db.MediaTypeOnline, ContactEmail: "newsdesk@independent.co.uk", ComplaintsEmail: "complaints@independent.co.uk", Website: "https://www.independent.co.uk", Regulator: "IPSO", Description: "The Independent online"},
	{Name: "LBC Radio", MediaType: db.MediaTypeRadio, ContactEmail: "studio@lbc.co.uk", ComplaintsEmail: "complaints@global.com", Website: "https://www.lbc.co.uk", Regulator: "Ofcom", Description: "LBC talk radio"},
	{Name: "Times Radio", MediaType: db.MediaTypeRadio, ContactEmail: "hello@timesradio.com", ComplaintsEmail: "hello@timesradio.com", Website: "https://www.thetimes.co.uk/radio", Regulator: "Ofcom", Description: "Times Radio"},
	{Name: "HuffPost UK", MediaType: db.MediaTypeOnline, ContactEmail: "ukscoop@huffpost.com", ComplaintsEmail: "ukscoop@huffpost.com", Website: "https://www.huffingtonpost.co.uk", Regulator: "IPSO", Description: "HuffPost UK online news"},
	{Name: "PoliticsHome", MediaType: db.MediaTypeOnline, ContactEmail: "editor@politicshome.com", ComplaintsEmail: "editor@politicshome.com", Website: "https://www.politicshome.com", Description: "PoliticsHome political news website"},
}

func runSeedOutlets(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	database, err := connectDB(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	for i := range seedOutlets {
		outlet, err := database.CreateOutlet(cmd.Context(), &seedOutlets[i])
		if err != nil {
			return fmt.Errorf("failed to seed outlet %q: %w", seedOutlets[i].Name, err)
		}
		fmt.Printf("  Seeded: %s\n", outlet.Name)
	}

	fmt.Printf("Seeded %d outlets\n", len(seedOutlets))
	return nil
}
