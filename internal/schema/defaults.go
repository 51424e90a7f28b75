package schema

import "fmt"

// Default returns the built-in catalog registry: the six launch categories
// and the shared dimension tables they reference. Schema changes ship as
// code; hot-reloading definitions at runtime is deliberately unsupported.
func Default() *Registry {
	r, err := NewRegistry(defaultCategories(), defaultDimensions())
	if err != nil {
		panic(fmt.Sprintf("built-in schema is invalid: %v", err))
	}
	return r
}

func defaultDimensions() []Dimension {
	return []Dimension{
		{Key: "socket", Entries: []DimensionEntry{
			{ID: "AM4", Label: "AM4"},
			{ID: "AM5", Label: "AM5"},
			{ID: "LGA1700", Label: "LGA1700"},
		}},
		{Key: "chipset", Entries: []DimensionEntry{
			{ID: "B650", Label: "B650"},
			{ID: "X670E", Label: "X670E"},
			{ID: "Z790", Label: "Z790"},
		}},
		{Key: "memory_type", Entries: []DimensionEntry{
			{ID: "DDR4", Label: "DDR4"},
			{ID: "DDR5", Label: "DDR5"},
		}},
		{Key: "form_factor", Entries: []DimensionEntry{
			{ID: "ATX", Label: "ATX"},
			{ID: "mATX", Label: "mATX"},
			{ID: "ITX", Label: "ITX"},
		}},
		{Key: "pcie_generation", Entries: []DimensionEntry{
			{ID: "3", Label: "PCIe 3.0"},
			{ID: "4", Label: "PCIe 4.0"},
			{ID: "5", Label: "PCIe 5.0"},
		}},
	}
}

func defaultCategories() []CategorySchema {
	return []CategorySchema{
		{
			ID:   "CPU",
			Role: "cpu",
			SpecDefs: []SpecDef{
				{ID: "core_count", Label: "Cores", Type: TypeInt},
				{ID: "thread_count", Label: "Threads", Type: TypeInt},
				{ID: "base_clock", Label: "Base Clock", Type: TypeFloat, Unit: "GHz"},
				{ID: "boost_clock", Label: "Boost Clock", Type: TypeFloat, Unit: "GHz"},
				{ID: "tdp", Label: "TDP", Type: TypeInt, Unit: "W"},
				{ID: "igpu", Label: "iGPU", Type: TypeBool},
			},
			CompatKeys: []string{"socket"},
		},
		{
			ID:   "Motherboard",
			Role: "mobo",
			SpecDefs: []SpecDef{
				{ID: "vrm_phases", Label: "VRM Phases", Type: TypeString},
				{ID: "m2_slots", Label: "M.2 Slots", Type: TypeInt},
				{ID: "wifi", Label: "Wi-Fi", Type: TypeBool},
				{ID: "usb_c_header", Label: "USB-C Header", Type: TypeBool},
			},
			CompatKeys: []string{"socket", "chipset", "memory_type", "form_factor"},
		},
		{
			ID:   "GPU",
			Role: "gpu",
			SpecDefs: []SpecDef{
				{ID: "vram", Label: "VRAM", Type: TypeInt, Unit: "GB"},
				{ID: "boost_mhz", Label: "Boost", Type: TypeInt, Unit: "MHz"},
				{ID: "tbp", Label: "TBP", Type: TypeInt, Unit: "W"},
				{ID: "slots", Label: "Slot Thickness", Type: TypeFloat, Unit: "slots"},
				{ID: "length_mm", Label: "Length", Type: TypeInt, Unit: "mm"},
			},
			CompatKeys: []string{"pcie_generation"},
		},
		{
			ID:   "RAM",
			Role: "ram",
			SpecDefs: []SpecDef{
				{ID: "capacity_gb", Label: "Capacity", Type: TypeInt, Unit: "GB"},
				{ID: "sticks", Label: "Sticks", Type: TypeInt},
				{ID: "speed_mhz", Label: "Speed", Type: TypeInt, Unit: "MHz"},
				{ID: "cl", Label: "CAS Latency", Type: TypeInt, Unit: "CL"},
			},
			CompatKeys: []string{"memory_type"},
		},
		{
			ID:   "PSU",
			Role: "psu",
			SpecDefs: []SpecDef{
				{ID: "wattage", Label: "Wattage", Type: TypeInt, Unit: "W"},
				{ID: "rating", Label: "80+ Rating", Type: TypeEnum, EnumValues: []string{"Bronze", "Gold", "Platinum"}},
				{ID: "atx_version", Label: "ATX Spec", Type: TypeEnum, EnumValues: []string{"ATX 2.52", "ATX 3.0"}},
				{ID: "pcie_12vhpwr", Label: "12VHPWR/12V-2x6", Type: TypeBool},
			},
			CompatKeys: []string{"form_factor"},
		},
		{
			ID:   "Case",
			Role: "case",
			SpecDefs: []SpecDef{
				{ID: "max_gpu_mm", Label: "Max GPU Length", Type: TypeInt, Unit: "mm"},
				{ID: "max_cooler_mm", Label: "Max CPU Cooler", Type: TypeInt, Unit: "mm"},
				{ID: "radiator_support", Label: "Radiator Support", Type: TypeString},
			},
			CompatKeys: []string{"form_factor"},
		},
	}
}
