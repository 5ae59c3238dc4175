package pingen

// vendorTable pairs a catalog algorithm ID with the MAC prefixes (uppercase
// hex digits, no separators; usually the 6-digit OUI, occasionally longer,
// e.g. pinRTK's "F4C7146") whose vendors are known to use it. Taken
// verbatim from src/wps.py's _suggest() tables.
type vendorTable struct {
	id       string
	prefixes []string
}

var vendorTables = []vendorTable{
	{id: "pinTPLink", prefixes: []string{
		"00194D", "001D0F", "002127", "0023CD", "002586", "002719", "081F71", "0C4B54",
		"0C722C", "1040F3", "140467", "14144B", "14CF92", "1C3BF3", "1C710D", "24695A",
		"28EE52", "302E38", "30B49E", "34E894", "388345", "3C3786", "40169F", "403F8C",
		"44B32D", "4CE676", "50BD5F", "50C7BF", "50FA84", "547595", "5C899A", "645601",
		"6466B3", "706F81", "74EA3A", "7844FD", "7C8BCA", "803F5D", "84162B", "8C210A",
		"90AE1B", "90F652", "94D9B3", "A0F3C1", "A42BB0", "AC84C9", "B0487A", "B04E26",
		"B8D50B", "C025E9", "C04A00", "C46E1F", "CC32E5", "D84732", "DC0B34", "E005C5",
		"E4D332", "E894F6", "EC086B", "EC172F", "EC888F", "F4EC38", "F81A67", "F8D111",
		"FC4D8C",
	}},
	{id: "pinDLink", prefixes: []string{
		"00112F", "0015E9", "00179A", "001B11", "001CF0", "001E58", "002191", "0022B0",
		"002401", "00265A", "0CB6D2", "1062EB", "14D64D", "1C7EE5", "28107B", "340804",
		"3C1E04", "48EE0C", "54B80A", "5CD998", "74DADA", "78542E", "84C9B2", "A0AB1B",
		"B8A386", "BC0F9A", "BC4486", "C4A81D", "C8BE19", "C8D3A3", "CCB255", "F0B4D2",
		"FC7516",
	}},
	{id: "pinASUS", prefixes: []string{
		"049226", "04D9F5", "08606E", "086266", "107B44", "10BF48", "10C37B", "14DDA9",
		"1C872C", "1CB72C", "2C56DC", "2CFDA1", "305A3A", "382C4A", "38D547", "40167E",
		"50465D", "54A050", "6045CB", "60A44C", "704D7B", "74D02B", "7824AF", "88D7F6",
		"9C5C8E", "AC220B", "AC9E17", "B06EBF", "BCEE7B", "C86000", "D017C2", "D850E6",
		"E03F49", "F07957", "F832E4",
	}},
	{id: "pinRTK", prefixes: []string{
		"000C42", "000E8F", "001B2F", "00147C", "0017C5", "0019E0", "001AE3", "001D6A",
		"002268", "00E04C", "089E08", "0C4DE9", "10C37B", "1C4419", "2C27D7", "2C4D54",
		"33B26E", "406F2A", "44E9DD", "4CE676", "5084FB", "74DA88", "78471D", "78541A",
		"78D34B", "7CFF4D", "8C8401", "8CFDF0", "98DED0", "B4EED4", "B8D50B", "C8AA21",
		"CC2D83", "D0C0BF", "D86CE9", "E0D55E", "E4FB8F", "EC086B", "EC1A59", "EC888F",
		"F4C7146", "F832E4",
	}},
	{id: "pinMTK", prefixes: []string{
		"008BDF", "00BB3A", "00E04C", "0C4DE9", "147590", "1C740D", "2C27D7", "2CAB25",
		"38B1DB", "44E9DD", "4CE676", "5084FB", "74DA88", "78471D", "78541A", "78D34B",
		"7CFF4D", "8C8401", "8CFDF0", "98DED0", "B4EED4", "B8D50B", "C8AA21", "CC2D83",
		"D0C0BF", "D86CE9", "E0D55E", "E4FB8F", "EC086B", "EC1A59", "EC888F", "F4C714",
		"F832E4",
	}},
	{id: "pinBrcm1", prefixes: []string{
		"000E08", "001018", "0014BF", "001632", "00184D", "001A2B", "001B2F", "001CB3",
		"001E8C", "002275", "00235A", "002401", "00259C", "0026CE", "004075", "084E1C",
		"084EBF", "086698", "08863B", "0C8112", "100BA9", "14144B", "14D64D", "1C4419",
		"203CAE", "2405F5", "28107B", "28EE52", "30F772", "38B1DB", "38E3C5", "40167E",
		"44E9DD", "48EE0C", "4C14A3", "4CE676", "54B80A", "5C164A", "5C8FE0", "5CB066",
		"5CF4AB", "607EDD", "608334", "60A44C", "6466B3", "647002", "68ECC5", "6CAAB3",
		"6CFDB9", "78471D", "78541A", "78D34B", "7CFF4D", "8C8401", "8CFDF0", "98DED0",
		"B4EED4", "B8D50B", "C8AA21", "CC2D83", "D0C0BF", "D86CE9", "E0D55E", "E4FB8F",
		"EC086B", "EC1A59", "EC888F", "F4C714", "F832E4",
	}},
	{id: "pinZyxel", prefixes: []string{
		"001349", "004BF3", "086698", "1C740D", "2C27D7", "40B7F3", "44D437", "48EE0C",
		"54B80A", "5C6A7D", "5CE286", "74DE2B", "7C2664", "90EF68", "98F7D7", "B0B2DC",
		"B8D50B", "CC5D4E", "E0D55E", "E4E7C9", "E8377D", "EC4318", "F0B7B7",
	}},
	{id: "pinHuawei", prefixes: []string{
		"001882", "001E10", "002568", "00259E", "002EC7", "00464B", "008025", "043389",
		"083FBC", "0C37DC", "105172", "143004", "2008ED", "2469A5", "286ED4", "28DEE5",
		"3C7843", "487B6B", "4C5499", "4CF95D", "4CFB45", "50016B", "50680A", "544A16",
		"58605F", "5C4CA9", "60D755", "70723C", "781DBA", "786A89", "7C1CF1", "7C6097",
		"7CA177", "80717A", "80B686", "80FB06", "843DC6", "84BE52", "88A6C6", "88E3AB",
		"9C28EF", "9CE374", "A0A33B", "A4C64F", "AC4E91", "AC853D", "ACA213", "B41513",
		"B808D7", "BC7670", "C4473F", "C4F081", "C8D15E", "CC53B5", "D07AB5", "D46AA8",
		"D46E5C", "D494E8", "D8490B", "DC094C", "DC729B", "E0247F", "E09796", "E4C2D1",
		"E8088B", "EC233D", "F04347", "F09838", "F49FF3", "F4C714", "F83DFF",
	}},
}

// brcmTableIdx locates the Broadcom table among vendorTables for the
// additional static-PIN suggestion check.
var brcmTableIdx = func() int {
	for i, v := range vendorTables {
		if v.id == "pinBrcm1" {
			return i
		}
	}
	panic("pinBrcm1 table missing")
}()
